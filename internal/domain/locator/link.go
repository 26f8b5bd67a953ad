package locator

import (
	"fmt"
	"net/url"
	"strconv"
)

// LinkScheme prefixes every navigation link.
const LinkScheme = "brkit"

// Link addresses one internal line of one program. Its string form is opaque to
// callers: produce it with String and resolve it with ParseLink.
type Link struct {
	Path string
	Line int
}

// String encodes the link as brkit:open?path=...&line=...
func (l Link) String() string {
	q := url.Values{}
	q.Set("path", l.Path)
	q.Set("line", strconv.Itoa(l.Line))
	u := url.URL{Scheme: LinkScheme, Opaque: "open", RawQuery: q.Encode()}
	return u.String()
}

// ParseLink decodes a link produced by Link.String.
func ParseLink(s string) (Link, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Link{}, fmt.Errorf("parse link: %w", err)
	}
	if u.Scheme != LinkScheme || u.Opaque != "open" {
		return Link{}, fmt.Errorf("not a %s link: %q", LinkScheme, s)
	}
	q := u.Query()
	path := q.Get("path")
	if path == "" {
		return Link{}, fmt.Errorf("link %q has no path", s)
	}
	n, err := strconv.Atoi(q.Get("line"))
	if err != nil || n < 0 {
		return Link{}, fmt.Errorf("link %q has an invalid line", s)
	}
	return Link{Path: path, Line: n}, nil
}

// IsLink reports whether s looks like a navigation link.
func IsLink(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme == LinkScheme
}
