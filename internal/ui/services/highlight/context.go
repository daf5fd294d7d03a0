package highlight

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// New creates a highlight context. Empty text means "no highlight".
func New(text string, caseSensitive, regex, wholeWord bool) *Context {
	return &Context{
		Text:          text,
		CaseSensitive: caseSensitive,
		WholeWord:     wholeWord,
		Regex:         regex,
	}
}

// Active reports whether c has something to mark
func (c *Context) Active() bool {
	return c != nil && strings.TrimSpace(c.Text) != ""
}

// Key identifies the context for caching. Equal contexts have equal keys.
func (c *Context) Key() string {
	if !c.Active() {
		return ""
	}
	return fmt.Sprintf("%t|%t|%t|%s", c.CaseSensitive, c.WholeWord, c.Regex, c.Text)
}

// Options renders the enabled options as a short flag string, e.g. "Aa W"
func (c *Context) Options() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	if c.CaseSensitive {
		b.WriteString("Aa ")
	}
	if c.WholeWord {
		b.WriteString("W ")
	}
	if c.Regex {
		b.WriteString(".* ")
	}
	return strings.TrimSpace(b.String())
}

// Matcher finds the occurrences of a context's term in text
type Matcher struct {
	re        *regexp.Regexp // nil matches nothing
	wholeWord bool
}

// Compile builds a matcher for c. An inactive context compiles to a matcher
// that finds nothing; an invalid regular expression is an error.
func (c *Context) Compile() (*Matcher, error) {
	if !c.Active() {
		return &Matcher{}, nil
	}

	pattern := c.Text
	if !c.Regex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if !c.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", c.Text, err)
	}
	return &Matcher{re: re, wholeWord: c.WholeWord}, nil
}

// FindAll returns every non-overlapping, non-empty match in text
func (m *Matcher) FindAll(text string) []Range {
	if m == nil || m.re == nil || text == "" {
		return nil
	}

	if m.wholeWord {
		return m.findWholeWords(text)
	}

	var out []Range
	for _, loc := range m.re.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		out = append(out, Range{Start: loc[0], End: loc[1]})
	}
	return out
}

// findWholeWords resumes one rune after a rejected match, so a whole-word
// match overlapping a rejected one is still found.
func (m *Matcher) findWholeWords(text string) []Range {
	var out []Range
	pos := 0
	for pos <= len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start < end && isWholeWord(text, start, end) {
			out = append(out, Range{Start: start, End: end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}
	return out
}

// MatchString reports whether text contains at least one match
func (m *Matcher) MatchString(text string) bool {
	return len(m.FindAll(text)) > 0
}

func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Mark rewrites text, passing each matched range through mark.
// Ranges must be sorted and non-overlapping, as returned by FindAll.
func Mark(text string, ranges []Range, mark func(string) string) string {
	if len(ranges) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, r := range ranges {
		if r.Start < last || r.End > len(text) || r.Start >= r.End {
			continue
		}
		b.WriteString(text[last:r.Start])
		b.WriteString(mark(text[r.Start:r.End]))
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}
