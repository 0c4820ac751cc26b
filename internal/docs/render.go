package docs

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Write renders the document to w in the requested format. Supported formats
// are json, yaml (yml), and markdown (md).
func (d Document) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "yaml", "yml":
		data, err := yaml.Marshal(d)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "markdown", "md":
		return d.writeMarkdown(w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (d Document) writeMarkdown(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# " + d.Title + "\n\n")
	sb.WriteString("Generated at " + d.GeneratedAt.Format("2006-01-02 15:04:05 MST") + ".\n")

	lastFile := ""
	for _, rec := range d.Entries {
		if rec.File != lastFile {
			sb.WriteString("\n## " + rec.File + "\n")
			lastFile = rec.File
		}

		sb.WriteString("\n### `" + signature(rec) + "`\n\n")
		if rec.Deprecated {
			sb.WriteString("**Deprecated.**\n\n")
		}
		if rec.Doc != "" {
			sb.WriteString(rec.Doc + "\n\n")
		}
		if rec.Usage != nil {
			fmt.Fprintf(&sb, "Usage: %d calls via `%s`", rec.Usage.Calls, rec.Usage.Endpoint)
			if rec.Usage.LastStatus != "" {
				fmt.Fprintf(&sb, " (last status %s)", rec.Usage.LastStatus)
			}
			sb.WriteString("\n\n")
		}
		if len(rec.Imports) > 0 {
			sb.WriteString("Imports: " + strings.Join(rec.Imports, ", ") + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func signature(rec Record) string {
	var sb strings.Builder
	sb.WriteString("func ")
	if rec.Receiver != "" {
		sb.WriteString("(" + rec.Receiver + ") ")
	}
	sb.WriteString(rec.Function + "(")
	for i, p := range rec.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Name != "" {
			sb.WriteString(p.Name + " ")
		}
		sb.WriteString(p.Type)
	}
	sb.WriteString(")")
	switch len(rec.Results) {
	case 0:
	case 1:
		sb.WriteString(" " + rec.Results[0])
	default:
		sb.WriteString(" (" + strings.Join(rec.Results, ", ") + ")")
	}
	return sb.String()
}
