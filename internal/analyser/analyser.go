// Package analyser extracts API documentation entries from Go source code by
// parsing each file and walking its syntax tree. There is no cross-file
// resolution and no type checking: what the parser sees is what is reported.
package analyser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Analyser walks directories and turns function declarations into Entry
// values. Files that fail to parse are logged and skipped so a single broken
// file never aborts a whole run.
type Analyser struct {
	fset *token.FileSet
	log  *zap.Logger
}

// New allocates an Analyser. A nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Analyser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyser{
		fset: token.NewFileSet(),
		log:  log,
	}
}

// AnalyseDirectory walks dir recursively and analyses every Go file it finds.
// Vendor, testdata, hidden, and underscore-prefixed directories are skipped,
// as are _test.go files. The returned error only reflects walk failures;
// per-file parse errors are logged and the walk continues.
func (a *Analyser) AnalyseDirectory(dir string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			if skipDir(de.Name(), path == dir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(de.Name(), ".go") || strings.HasSuffix(de.Name(), "_test.go") {
			return nil
		}

		fileEntries, err := a.AnalyseFile(path)
		if err != nil {
			a.log.Error("failed to analyse file",
				zap.String("file", path),
				zap.Error(err),
			)
			return nil
		}
		entries = append(entries, fileEntries...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	a.log.Info("analysis complete",
		zap.String("dir", dir),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

func skipDir(name string, isRoot bool) bool {
	if isRoot {
		return false
	}
	switch name {
	case "vendor", "testdata":
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// AnalyseFile parses a single Go file and returns one entry per function
// declaration found in it.
func (a *Analyser) AnalyseFile(path string) ([]Entry, error) {
	src, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	file, err := parser.ParseFile(a.fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	pkgName := ""
	if file.Name != nil {
		pkgName = file.Name.Name
	}
	imports := collectImports(file)

	var entries []Entry
	ast.Inspect(file, func(n ast.Node) bool {
		decl, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		entries = append(entries, a.entryFromDecl(decl, path, pkgName, imports))
		return true
	})

	return entries, nil
}

func (a *Analyser) entryFromDecl(decl *ast.FuncDecl, path, pkgName string, imports []string) Entry {
	doc := ""
	deprecated := false
	if decl.Doc != nil {
		doc = extractDescription(decl.Doc.Text())
		deprecated = isDeprecated(decl.Doc.Text())
	}

	entry := Entry{
		File:       filepath.Base(path),
		Package:    pkgName,
		Function:   decl.Name.Name,
		Receiver:   receiverType(decl),
		Parameters: extractParameters(decl.Type),
		Results:    extractResults(decl.Type),
		Doc:        doc,
		Deprecated: deprecated,
		Imports:    imports,
		Exported:   ast.IsExported(decl.Name.Name),
		Line:       a.fset.Position(decl.Pos()).Line,
	}
	return entry
}

// collectImports returns the file's imports as "path" or "alias path" when an
// alias is present.
func collectImports(file *ast.File) []string {
	var imports []string
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if imp.Name != nil {
			imports = append(imports, imp.Name.Name+" "+path)
			continue
		}
		imports = append(imports, path)
	}
	return imports
}

func receiverType(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	return strings.TrimPrefix(typeString(decl.Recv.List[0].Type), "*")
}

func extractParameters(ft *ast.FuncType) []Parameter {
	if ft.Params == nil {
		return nil
	}
	var params []Parameter
	for _, field := range ft.Params.List {
		typ := typeString(field.Type)
		if len(field.Names) == 0 {
			params = append(params, Parameter{Type: typ})
			continue
		}
		// A single field can declare several names (a, b string).
		for _, name := range field.Names {
			params = append(params, Parameter{Name: name.Name, Type: typ})
		}
	}
	return params
}

func extractResults(ft *ast.FuncType) []string {
	if ft.Results == nil {
		return nil
	}
	var results []string
	for _, field := range ft.Results.List {
		typ := typeString(field.Type)
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			results = append(results, typ)
		}
	}
	return results
}

// typeString renders a type expression back to source-like form.
func typeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeString(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			return "[...]" + typeString(t.Elt)
		}
		return "[]" + typeString(t.Elt)
	case *ast.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *ast.MapType:
		return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}"
	case *ast.StructType:
		return "struct{...}"
	case *ast.FuncType:
		return "func(...)"
	case *ast.Ellipsis:
		return "..." + typeString(t.Elt)
	case *ast.ChanType:
		switch t.Dir {
		case ast.RECV:
			return "<-chan " + typeString(t.Value)
		case ast.SEND:
			return "chan<- " + typeString(t.Value)
		default:
			return "chan " + typeString(t.Value)
		}
	case *ast.IndexExpr:
		return typeString(t.X) + "[" + typeString(t.Index) + "]"
	case *ast.IndexListExpr:
		var params []string
		for _, idx := range t.Indices {
			params = append(params, typeString(idx))
		}
		return typeString(t.X) + "[" + strings.Join(params, ", ") + "]"
	default:
		return "unknown"
	}
}

// extractDescription returns the first paragraph (until double newline) of a
// doc comment, joined into a single line.
func extractDescription(comment string) string {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return ""
	}

	paragraphs := strings.Split(trimmed, "\n\n")
	lines := strings.Split(paragraphs[0], "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

func isDeprecated(comment string) bool {
	for _, line := range strings.Split(comment, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Deprecated:") {
			return true
		}
	}
	return false
}
