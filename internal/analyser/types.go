package analyser

// Entry describes a single function found in the analysed codebase. One entry
// is emitted per function declaration, methods included; the imports of the
// enclosing file are attached to every entry so each one is self-contained.
type Entry struct {
	File       string      `json:"file" yaml:"file"`
	Package    string      `json:"package" yaml:"package"`
	Function   string      `json:"function" yaml:"function"`
	Receiver   string      `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Results    []string    `json:"results,omitempty" yaml:"results,omitempty"`
	Doc        string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Deprecated bool        `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Imports    []string    `json:"imports,omitempty" yaml:"imports,omitempty"`
	Exported   bool        `json:"exported" yaml:"exported"`
	Line       int         `json:"line" yaml:"line"`
}

// Parameter is a single function parameter. Unnamed parameters keep an empty
// Name and only carry the rendered type.
type Parameter struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type" yaml:"type"`
}

// QualifiedName returns the lookup key used to match usage reports against
// static entries: package.Function, or package.Receiver.Function for methods.
func (e Entry) QualifiedName() string {
	if e.Receiver != "" {
		return e.Package + "." + e.Receiver + "." + e.Function
	}
	return e.Package + "." + e.Function
}
