package ports

// Span is a half-open byte range [Start, End) inside a line of text.
type Span struct {
	Start int
	End   int
}

// TermMatcher locates search terms inside result lines for highlighting.
// A single pass over the content finds every term simultaneously.
// Matching is case-insensitive, like the engine's LIST search.
type TermMatcher interface {
	// Spans returns non-overlapping spans of term occurrences in content,
	// ordered by Start. Returns nil if no term occurs.
	Spans(content string) []Span
}
