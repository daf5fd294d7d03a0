package highlight

// Context is the active search term and its matching options.
// A nil *Context means highlighting is disabled.
type Context struct {
	Text          string
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
}

// Range is a half-open byte range [Start, End) of one match
type Range struct {
	Start int
	End   int
}
