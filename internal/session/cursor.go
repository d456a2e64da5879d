package session

// Cursor is a zero-based position in the active listing. An index equal to
// the listing length means every file has been handled.
type Cursor struct {
	index int
}

// Index returns the position.
func (c *Cursor) Index() int {
	return c.index
}

// Advance moves by delta. Results below 1 snap to 0; there is no upper clamp.
func (c *Cursor) Advance(delta int) {
	c.index += delta
	if c.index < 1 {
		c.index = 0
	}
}

// Reset moves back to the first file.
func (c *Cursor) Reset() {
	c.index = 0
}

// Seek jumps to i, clamped to [0, n].
func (c *Cursor) Seek(i, n int) {
	c.index = min(max(i, 0), n)
}

// Current returns the listing element under the cursor.
func (c *Cursor) Current(listing []string) (string, bool) {
	if c.index < 0 || c.index >= len(listing) {
		return "", false
	}
	return listing[c.index], true
}
