// Package diagnostic defines the language-neutral error objects produced by
// every phase of the pipeline (resolver, compiler), and the accumulating
// list that lets one compile pass report many errors at once.
//
// The List type plays the same role as the teacher's reuse of
// go/scanner.ErrorList (lang/scanner/scanner.go: "ErrorList =
// scanner.ErrorList"): a sortable, accumulating slice of positioned errors
// with an Err() that collapses an empty list to nil. Diagnostic carries the
// richer shape spec.md §7 requires (title, description, detail snippets,
// help), so it is its own type rather than a direct alias, but the list
// keeps the same Add/Sort/Err shape as the teacher's borrowed type.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vellumlang/vellum/lang/source"
)

// Snippet pairs an explanatory message with the position it annotates, e.g.
// "first declared here" pointing at the earlier of two conflicting
// declarations.
type Snippet struct {
	Message  string
	Position source.Position
}

// Diagnostic is a single compile-time error or warning.
type Diagnostic struct {
	Title          string
	Description    string
	Primary        source.Position
	DetailSnippets []Snippet
	Help           string
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Title, d.Description)
	for _, s := range d.DetailSnippets {
		fmt.Fprintf(&b, "\n  %s", s.Message)
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "\n  help: %s", d.Help)
	}
	return b.String()
}

// List accumulates diagnostics across an entire compile pass. The zero
// value is ready to use.
type List struct {
	fset  *source.FileSet
	items []*Diagnostic
}

// NewList returns a List that formats positions using fset. fset may be nil
// if only programmatic access (not human-readable formatting) is needed.
func NewList(fset *source.FileSet) *List {
	return &List{fset: fset}
}

// Add appends a diagnostic to the list.
func (l *List) Add(d *Diagnostic) {
	l.items = append(l.items, d)
}

// Addf is a convenience for the common case of a title/description pair
// with no detail snippets or help text.
func (l *List) Addf(pos source.Position, title, format string, args ...interface{}) {
	l.Add(&Diagnostic{
		Title:       title,
		Description: fmt.Sprintf(format, args...),
		Primary:     pos,
	})
}

// Len reports the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.items) }

// Items returns the accumulated diagnostics in their current order.
func (l *List) Items() []*Diagnostic { return l.items }

// Sort orders diagnostics by file then by start offset, so output is
// deterministic regardless of the order phases ran in.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		a, b := l.items[i].Primary, l.items[j].Primary
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})
}

// Err returns nil if the list is empty, otherwise an error summarizing all
// accumulated diagnostics (the list itself, which implements error).
func (l *List) Err() error {
	if len(l.items) == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	var b strings.Builder
	for i, d := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.fset != nil && d.Primary.IsValid() {
			fmt.Fprintf(&b, "%s: %s", l.fset.Format(d.Primary), d.Error())
		} else {
			b.WriteString(d.Error())
		}
	}
	return b.String()
}
