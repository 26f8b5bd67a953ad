package ports

import "time"

// FileKind classifies a workspace file by extension.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindCompiled
	KindSource
)

func (k FileKind) String() string {
	switch k {
	case KindCompiled:
		return "compiled"
	case KindSource:
		return "source"
	default:
		return "unknown"
	}
}

// WorkspaceFile is one candidate discovered while enumerating a search root.
type WorkspaceFile struct {
	Path string   // absolute
	Ext  string   // lowercase, leading dot
	Kind FileKind
}

// Match is one line the engine listed for a search term.
type Match struct {
	Path    string `json:"path"`    // file the match belongs to
	Line    int    `json:"line"`    // internal line number (not the physical index)
	Content string `json:"content"` // entire trimmed line, line number included
}

// FileResult groups the matches of a single searched file in encounter order.
type FileResult struct {
	Path    string  `json:"path"`
	Matches []Match `json:"matches"`
}

// ResultSet is the complete outcome of one search. A session holds at most one;
// each new search replaces it wholesale.
type ResultSet struct {
	ID        string       `json:"id"`
	Terms     []string     `json:"terms"`
	Roots     []string     `json:"roots"`
	Files     []FileResult `json:"files"`
	Total     int          `json:"total"`
	CreatedAt time.Time    `json:"created_at"`
}

// MatchAt returns the n-th match (0-based) across all files in display order.
func (rs *ResultSet) MatchAt(n int) (Match, bool) {
	if rs == nil || n < 0 {
		return Match{}, false
	}
	for _, f := range rs.Files {
		if n < len(f.Matches) {
			return f.Matches[n], true
		}
		n -= len(f.Matches)
	}
	return Match{}, false
}
