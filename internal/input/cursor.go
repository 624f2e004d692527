package input

// NoSelection is the cursor index sentinel for an empty filtered view.
const NoSelection = -1

// Cursor tracks the current system and the selected index inside that
// system's filtered view.
type Cursor struct {
	System string
	Index  int
}

// ClampTo re-clamps the index after the filtered view changed size. An
// empty view forces the sentinel state.
func (c *Cursor) ClampTo(size int) {
	switch {
	case size <= 0:
		c.Index = NoSelection
	case c.Index < 0:
		c.Index = 0
	case c.Index >= size:
		c.Index = size - 1
	}
}

// Step moves the cursor by delta inside a view of the given size. Without
// wrap the cursor clamps at the ends; a further step past the last entry
// leaves it unchanged.
func (c *Cursor) Step(delta, size int, wrap bool) {
	if size <= 0 {
		c.Index = NoSelection
		return
	}
	if c.Index == NoSelection {
		c.Index = 0
		return
	}
	next := c.Index + delta
	if wrap {
		next = ((next % size) + size) % size
	} else if next < 0 {
		next = 0
	} else if next >= size {
		next = size - 1
	}
	c.Index = next
}

// Reset points the cursor at the first entry of a view, or the sentinel
// when the view is empty.
func (c *Cursor) Reset(system string, size int) {
	c.System = system
	if size > 0 {
		c.Index = 0
	} else {
		c.Index = NoSelection
	}
}
