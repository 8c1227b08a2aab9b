package shared

// Filter represents list query options
type Filter struct {
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}
