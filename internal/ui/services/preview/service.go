package preview

import (
	"log"

	"findpane/internal/domain"
	"findpane/internal/ui/services/highlight"

	"github.com/acarl005/stripansi"
	lru "github.com/hashicorp/golang-lru/v2"
)

var supportedSyntax = map[domain.SyntaxKind]bool{
	domain.SyntaxPlain:      true,
	domain.SyntaxJava:       true,
	domain.SyntaxKotlin:     true,
	domain.SyntaxSmali:      true,
	domain.SyntaxXML:        true,
	domain.SyntaxJSON:       true,
	domain.SyntaxProperties: true,
}

// Supported reports whether the preview renderer knows kind
func Supported(kind domain.SyntaxKind) bool {
	return supportedSyntax[kind]
}

// Service turns a selected entry and the active highlight context into a Preview
type Service struct {
	cache *lru.Cache[string, Preview]
}

// NewService creates a preview service caching up to size previews
func NewService(size int) *Service {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Preview](size)
	if err != nil {
		// only possible for a non-positive size
		panic(err)
	}
	return &Service{cache: cache}
}

// Render builds the preview for entry. An entry without a description
// yields an empty preview and nothing is highlighted.
func (s *Service) Render(entry domain.ResultEntry, hl *highlight.Context) Preview {
	if !domain.HasDescription(entry) {
		return Preview{}
	}

	key := entry.ID() + "\x00" + hl.Key()
	if p, ok := s.cache.Get(key); ok {
		return p
	}

	p := Preview{
		Text:   stripansi.Strip(entry.Description()),
		Syntax: entry.Syntax(),
	}
	if !Supported(p.Syntax) {
		p.Syntax = domain.SyntaxPlain
		p.Plain = true
	}

	if hl.Active() {
		m, err := hl.Compile()
		if err != nil {
			log.Printf("preview: %v", err)
		} else {
			p.Matches = m.FindAll(p.Text)
		}
	}

	s.cache.Add(key, p)
	return p
}

// Purge drops every cached preview
func (s *Service) Purge() {
	s.cache.Purge()
}

// Len returns the number of cached previews
func (s *Service) Len() int {
	return s.cache.Len()
}
