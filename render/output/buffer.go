package output

import (
	"sort"
	"strings"
)

// Consumer is the polymorphic writer the render engine targets: a
// text-accumulating pass implements it one way, an import-gathering pass
// implements it another, so the same directive tree can drive either.
type Consumer interface {
	WriteString(s string)
	AddImport(path string)
}

// ImportCollector is a Consumer that discards all written text and only
// gathers the set of distinct import paths reached while walking a
// directive tree — the engine's first of two render passes.
type ImportCollector struct {
	imports map[string]bool
}

// NewImportCollector returns an empty collector.
func NewImportCollector() *ImportCollector {
	return &ImportCollector{imports: map[string]bool{}}
}

func (c *ImportCollector) WriteString(string)     {}
func (c *ImportCollector) AddImport(path string)  { c.imports[path] = true }

// Sorted returns the collected import paths, deduplicated and sorted, for
// deterministic splicing into the second pass.
func (c *ImportCollector) Sorted() []string {
	out := make([]string, 0, len(c.imports))
	for p := range c.imports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// TokenBuffer is a Consumer that accumulates real output text. It does not
// collect imports itself — the `<imports/>` marker is resolved from an
// ImportCollector's prior pass and spliced in via SetResolvedImports.
type TokenBuffer struct {
	buf             strings.Builder
	resolvedImports []string
}

// NewTokenBuffer returns an empty content buffer.
func NewTokenBuffer() *TokenBuffer {
	return &TokenBuffer{}
}

func (b *TokenBuffer) WriteString(s string)  { b.buf.WriteString(s) }
func (b *TokenBuffer) AddImport(string)      {}

// SetResolvedImports supplies the import lines gathered by a prior
// ImportCollector pass, written out wherever the tree contains `<imports/>`.
func (b *TokenBuffer) SetResolvedImports(lines []string) {
	b.resolvedImports = lines
}

// WriteImportsMarker emits every resolved import line, one per line.
func (b *TokenBuffer) WriteImportsMarker() {
	for _, line := range b.resolvedImports {
		b.buf.WriteString(line)
		b.buf.WriteString("\n")
	}
}

// Content returns everything written so far.
func (b *TokenBuffer) Content() string {
	return b.buf.String()
}
