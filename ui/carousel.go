package ui

// Carousel is the position of a horizontally scrolled list.
type Carousel struct {
	Len  int
	Loop bool
	pos  int
}

func (c *Carousel) Index() int { return c.pos }

// Next moves one item forward and returns the new index.
func (c *Carousel) Next() int {
	switch {
	case c.Len == 0:
	case c.pos < c.Len-1:
		c.pos++
	case c.Loop:
		c.pos = 0
	}
	return c.pos
}

// Previous moves one item back and returns the new index.
func (c *Carousel) Previous() int {
	switch {
	case c.Len == 0:
	case c.pos > 0:
		c.pos--
	case c.Loop:
		c.pos = c.Len - 1
	}
	return c.pos
}
