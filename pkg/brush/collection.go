package brush

import "github.com/google/uuid"

// Collection is an ordered set of solids keyed by ID.
type Collection struct {
	solids []*Solid
	index  map[uuid.UUID]int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[uuid.UUID]int)}
}

// Add appends s. It returns false if a solid with the same ID is present.
func (c *Collection) Add(s *Solid) bool {
	if s == nil {
		return false
	}
	if _, ok := c.index[s.ID]; ok {
		return false
	}
	c.index[s.ID] = len(c.solids)
	c.solids = append(c.solids, s)
	return true
}

// Remove deletes s, keeping the order of the others.
func (c *Collection) Remove(s *Solid) bool {
	if s == nil {
		return false
	}
	i, ok := c.index[s.ID]
	if !ok {
		return false
	}
	c.solids = append(c.solids[:i], c.solids[i+1:]...)
	delete(c.index, s.ID)
	for j := i; j < len(c.solids); j++ {
		c.index[c.solids[j].ID] = j
	}
	return true
}

// Replace swaps old for the given solids at old's position. It is used to
// put split results where the original was.
func (c *Collection) Replace(old *Solid, with ...*Solid) bool {
	i, ok := c.index[old.ID]
	if !ok {
		return false
	}
	rest := append([]*Solid(nil), c.solids[i+1:]...)
	c.solids = c.solids[:i]
	delete(c.index, old.ID)
	for _, s := range rest {
		delete(c.index, s.ID)
	}
	for _, group := range [][]*Solid{with, rest} {
		for _, s := range group {
			if s == nil {
				continue
			}
			if _, dup := c.index[s.ID]; dup {
				continue
			}
			c.index[s.ID] = len(c.solids)
			c.solids = append(c.solids, s)
		}
	}
	return true
}

// Has reports whether a solid with s's ID is present.
func (c *Collection) Has(s *Solid) bool {
	if s == nil {
		return false
	}
	_, ok := c.index[s.ID]
	return ok
}

// Get returns the solid with the given ID.
func (c *Collection) Get(id uuid.UUID) (*Solid, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.solids[i], true
}

// At returns the i-th solid.
func (c *Collection) At(i int) *Solid { return c.solids[i] }

// Len returns the number of solids.
func (c *Collection) Len() int { return len(c.solids) }

// All returns a copy of the solids in insertion order.
func (c *Collection) All() []*Solid {
	return append([]*Solid(nil), c.solids...)
}

// Snapshots returns the current snapshot of every solid.
func (c *Collection) Snapshots() []*FaceSnapshot {
	out := make([]*FaceSnapshot, len(c.solids))
	for i, s := range c.solids {
		out[i] = s.Snapshot()
	}
	return out
}
