package models

// Movie is a catalog snapshot as returned by TMDb. It is never persisted as-is;
// list documents store the ListEntry projection instead.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview,omitempty"`
	Runtime     int     `json:"runtime,omitempty"` // minutes, detail endpoint only
}

// MoviePage is one page of a paginated catalog listing (popular or search).
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
