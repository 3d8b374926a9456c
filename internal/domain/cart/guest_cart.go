package cart

import "github.com/google/uuid"

// GuestCartEntry is one product/quantity pair collected before login
type GuestCartEntry struct {
	ProductID uuid.UUID
	Quantity  int
}

// GuestCart is the ordered list a client accumulated while anonymous.
// The server never stores it; it only arrives as merge input.
type GuestCart struct {
	entries []GuestCartEntry
}

// NewGuestCart copies entries into a guest cart
func NewGuestCart(entries []GuestCartEntry) GuestCart {
	copied := make([]GuestCartEntry, len(entries))
	copy(copied, entries)
	return GuestCart{entries: copied}
}

// Entries returns the entries in replay order
func (g GuestCart) Entries() []GuestCartEntry {
	return g.entries
}

// Len returns the number of entries
func (g GuestCart) Len() int {
	return len(g.entries)
}

// IsEmpty reports whether there is nothing to merge
func (g GuestCart) IsEmpty() bool {
	return len(g.entries) == 0
}

// From returns the entries starting at index i, which the client keeps
// after a partial merge
func (g GuestCart) From(i int) []GuestCartEntry {
	if i >= len(g.entries) {
		return []GuestCartEntry{}
	}
	rest := make([]GuestCartEntry, len(g.entries)-i)
	copy(rest, g.entries[i:])
	return rest
}
