package domain

// SearchResult holds one page of licenses ordered by const plus the unpaginated match count.
type SearchResult struct {
	Licenses   []License
	TotalCount int64
	Search     string
	Limit      int
	Offset     int
}
