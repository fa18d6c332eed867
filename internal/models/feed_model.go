package models

// Feed is the result set a visitor has accumulated on the browse/search page.
// Movies holds every movie fetched so far, in first-seen order, each ID at most once.
type Feed struct {
	Query      string  `json:"query"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Movies     []Movie `json:"movies"`
}

// HasMore reports whether the catalog has pages after the last one fetched.
func (f *Feed) HasMore() bool {
	return f.Page < f.TotalPages
}

// NextPage is the page a continuation request should fetch.
func (f *Feed) NextPage() int {
	return f.Page + 1
}

// Apply folds a freshly fetched page into the feed. A reset replaces the held
// movies; otherwise the page is merged with MergeMovies.
func (f *Feed) Apply(page MoviePage, query string, reset bool) {
	if reset {
		f.Movies = MergeMovies(nil, page.Results)
	} else {
		f.Movies = MergeMovies(f.Movies, page.Results)
	}
	f.Query = query
	f.Page = page.Page
	f.TotalPages = page.TotalPages
}

// MergeMovies appends incoming to held, dropping any movie whose ID has already
// been seen. The first occurrence wins and relative order is preserved.
func MergeMovies(held, incoming []Movie) []Movie {
	merged := make([]Movie, 0, len(held)+len(incoming))
	seen := make(map[int]struct{}, len(held)+len(incoming))
	for _, group := range [][]Movie{held, incoming} {
		for _, m := range group {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			merged = append(merged, m)
		}
	}
	return merged
}
