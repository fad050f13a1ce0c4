package domain

// Pagination bounds
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 200
)

// Page is an offset/limit window over a listing
type Page struct {
	Skip  int32
	Limit int32
}

// DefaultPage returns the first page with the default limit
func DefaultPage() Page {
	return Page{Skip: 0, Limit: DefaultPageLimit}
}

// Validate checks skip >= 0 and 1 <= limit <= MaxPageLimit
func (p Page) Validate() error {
	if p.Skip < 0 || p.Limit < 1 || p.Limit > MaxPageLimit {
		return ErrInvalidPagination
	}
	return nil
}
