package shared

// Filter represents query filter options shared by the list operations.
// Context-specific filters embed it and add their own predicates.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
