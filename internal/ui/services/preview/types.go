package preview

import (
	"findpane/internal/domain"
	"findpane/internal/ui/services/highlight"
)

// DefaultCacheSize is the number of rendered previews kept by default
const DefaultCacheSize = 256

// Preview is what the preview pane shows for one entry
type Preview struct {
	Text    string
	Syntax  domain.SyntaxKind
	Matches []highlight.Range
	Plain   bool // the entry's syntax is not supported and plain text is used
}

// Empty reports whether there is nothing to show
func (p Preview) Empty() bool {
	return p.Text == ""
}
