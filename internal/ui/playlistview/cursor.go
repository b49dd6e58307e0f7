package playlistview

// cursor tracks the highlighted row and the first visible row of a list.
// Lengths and heights are passed in since both change with the playlist and
// the terminal.
type cursor struct {
	pos    int
	offset int
	margin int
}

func (c *cursor) move(delta, n, height int) {
	c.jump(c.pos+delta, n, height)
}

func (c *cursor) jump(pos, n, height int) {
	if n == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = min(max(pos, 0), n-1)
	c.scroll(n, height)
}

// scroll moves the window so pos stays margin rows away from either edge.
func (c *cursor) scroll(n, height int) {
	if height <= 0 || n == 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = c.pos - margin
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = min(max(c.offset, 0), max(n-height, 0))
}
