package store

const (
	// DefaultPageLimit is used when a caller does not ask for a size.
	DefaultPageLimit = 50
	// MaxPageLimit caps a single page.
	MaxPageLimit = 200
)

// Page is a limit/offset window over a list query.
type Page struct {
	Limit  int
	Offset int
}

// Normalize returns p with defaults applied and bounds enforced.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
