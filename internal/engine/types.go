package engine

import (
	"findpane/internal/domain"
)

// Defaults used when a Scanner field is left zero
const (
	DefaultBatchSize = 50
	DefaultMaxDepth  = 12
	maxLineBytes     = 1024 * 1024
)

// DefaultExtensions are the file types searched when none are configured
var DefaultExtensions = []string{".java", ".kt", ".smali", ".xml", ".json", ".properties", ".txt"}

// Directories never descended into
var skipDirs = []string{"node_modules", "vendor", "dist", "build", "target", ".gradle", "__pycache__"}

// Sink receives the results of one search. Send may block; an error means
// the search was cancelled and scanning should stop.
type Sink interface {
	Send(entries []domain.ResultEntry) error
	Complete() error
}

var syntaxByExt = map[string]domain.SyntaxKind{
	".java":       domain.SyntaxJava,
	".kt":         domain.SyntaxKotlin,
	".smali":      domain.SyntaxSmali,
	".xml":        domain.SyntaxXML,
	".json":       domain.SyntaxJSON,
	".properties": domain.SyntaxProperties,
}

// SyntaxFor returns the syntax kind used to preview a file with extension ext
func SyntaxFor(ext string) domain.SyntaxKind {
	if k, ok := syntaxByExt[ext]; ok {
		return k
	}
	return domain.SyntaxPlain
}
