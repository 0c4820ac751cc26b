// Package docs maintains the documentation index: static entries produced by
// the analyser, enriched with usage data reported by the monitor.
package docs

import (
	"sort"
	"time"

	"github.com/thom899g/autodoc/internal/analyser"
)

// Usage captures what the monitor learned about a function from an endpoint's
// usage report.
type Usage struct {
	Endpoint   string    `json:"endpoint" yaml:"endpoint"`
	Calls      int64     `json:"calls" yaml:"calls"`
	LastStatus string    `json:"last_status,omitempty" yaml:"last_status,omitempty"`
	LastSeen   time.Time `json:"last_seen" yaml:"last_seen"`
}

// Record is a documentation entry plus any usage attached to it.
type Record struct {
	analyser.Entry `yaml:",inline"`
	Usage          *Usage `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// UsageReport is the payload the monitor decodes from an endpoint.
type UsageReport struct {
	Functions []FunctionUsage `json:"functions"`
}

// FunctionUsage reports call data for a single function. Name may be fully
// qualified (package.Function) or bare.
type FunctionUsage struct {
	Name   string `json:"name"`
	Calls  int64  `json:"calls"`
	Status string `json:"status,omitempty"`
}

// Index holds the current documentation state. It is not safe for concurrent
// use: the monitor loop is its only writer and reads happen on the same
// goroutine.
type Index struct {
	title   string
	records map[string]*Record
	// byFunction maps bare function names to qualified keys so usage reports
	// that omit the package still find their entry.
	byFunction map[string][]string
}

// NewIndex allocates an empty index. The title is carried into snapshots.
func NewIndex(title string) *Index {
	return &Index{
		title:      title,
		records:    map[string]*Record{},
		byFunction: map[string][]string{},
	}
}

// Replace swaps in a fresh static analysis result, discarding previous entries
// and their usage.
func (i *Index) Replace(entries []analyser.Entry) {
	i.records = make(map[string]*Record, len(entries))
	i.byFunction = map[string][]string{}
	for _, e := range entries {
		key := e.QualifiedName()
		i.records[key] = &Record{Entry: e}
		i.byFunction[e.Function] = append(i.byFunction[e.Function], key)
	}
}

// Len returns the number of indexed entries.
func (i *Index) Len() int {
	return len(i.records)
}

// ApplyUsage merges a usage report from the named endpoint into the index and
// returns how many functions in the report matched an entry. Unknown function
// names are ignored.
func (i *Index) ApplyUsage(endpoint string, report UsageReport, now time.Time) int {
	matched := 0
	for _, fu := range report.Functions {
		for _, key := range i.resolve(fu.Name) {
			rec := i.records[key]
			if rec.Usage == nil {
				rec.Usage = &Usage{}
			}
			rec.Usage.Endpoint = endpoint
			rec.Usage.Calls += fu.Calls
			if fu.Status != "" {
				rec.Usage.LastStatus = fu.Status
			}
			rec.Usage.LastSeen = now
			matched++
		}
	}
	return matched
}

func (i *Index) resolve(name string) []string {
	if _, ok := i.records[name]; ok {
		return []string{name}
	}
	return i.byFunction[name]
}

// Document is a stable, renderable snapshot of the index.
type Document struct {
	Title       string    `json:"title" yaml:"title"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Entries     []Record  `json:"entries" yaml:"entries"`
}

// Snapshot returns the current state sorted by file then line so output is
// deterministic across runs.
func (i *Index) Snapshot(now time.Time) Document {
	entries := make([]Record, 0, len(i.records))
	for _, rec := range i.records {
		entries = append(entries, *rec)
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].File != entries[b].File {
			return entries[a].File < entries[b].File
		}
		return entries[a].Line < entries[b].Line
	})

	return Document{
		Title:       i.title,
		GeneratedAt: now,
		Entries:     entries,
	}
}
