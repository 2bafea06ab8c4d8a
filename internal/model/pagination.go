package model

// Paginated is the list envelope returned by every collection endpoint
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether a further page exists
func (p Paginated[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Ptr returns a pointer to v, handy for optional input fields
func Ptr[T any](v T) *T { return &v }
