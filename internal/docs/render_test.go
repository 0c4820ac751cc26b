package docs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thom899g/autodoc/internal/analyser"
)

func testDocument() Document {
	return Document{
		Title:       "Test API",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Entries: []Record{
			{
				Entry: analyser.Entry{
					File:     "users.go",
					Package:  "users",
					Function: "Create",
					Parameters: []analyser.Parameter{
						{Name: "ctx", Type: "context.Context"},
						{Name: "name", Type: "string"},
					},
					Results:  []string{"*User", "error"},
					Doc:      "Create registers a new user.",
					Imports:  []string{"context"},
					Exported: true,
					Line:     10,
				},
				Usage: &Usage{Endpoint: "users-svc", Calls: 42, LastStatus: "200"},
			},
			{
				Entry: analyser.Entry{
					File:       "users.go",
					Package:    "users",
					Function:   "Remove",
					Deprecated: true,
					Line:       40,
				},
			},
		},
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := testDocument().Write(&buf, "json"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Title != "Test API" || len(got.Entries) != 2 {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.Entries[0].Usage == nil || got.Entries[0].Usage.Calls != 42 {
		t.Errorf("usage lost in output: %+v", got.Entries[0].Usage)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := testDocument().Write(&buf, "yaml"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got Document
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(got.Entries) != 2 || got.Entries[1].Function != "Remove" {
		t.Errorf("unexpected document: %+v", got)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := testDocument().Write(&buf, "markdown"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Test API",
		"## users.go",
		"func Create(ctx context.Context, name string) (*User, error)",
		"Create registers a new user.",
		"Usage: 42 calls via `users-svc` (last status 200)",
		"**Deprecated.**",
		"Imports: context",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\n---\n%s", want, out)
		}
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := testDocument().Write(&buf, "xml")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSignatureMethod(t *testing.T) {
	rec := Record{Entry: analyser.Entry{
		Function: "Close",
		Receiver: "Client",
		Results:  []string{"error"},
	}}
	if got := signature(rec); got != "func (Client) Close() error" {
		t.Errorf("signature: %q", got)
	}
}
