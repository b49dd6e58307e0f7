package playlist

// Queue wraps a Playlist with a current selection.
type Queue struct {
	playlist     *Playlist
	currentIndex int // -1 if nothing selected
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// Current returns the selected track, or nil if none.
func (q *Queue) Current() *Track {
	if q.currentIndex < 0 || q.currentIndex >= q.playlist.Len() {
		return nil
	}
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the index of the selected track (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// IsLast returns true if the selection is the last track of the queue.
func (q *Queue) IsLast() bool {
	return q.currentIndex >= 0 && q.currentIndex == q.playlist.Len()-1
}

// JumpTo sets the current index to the specified position.
// Returns the track at that position, or nil if invalid.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Deselect clears the selection.
func (q *Queue) Deselect() {
	q.currentIndex = -1
}

// NextIndex returns the successor of the current index in a cyclic walk.
// Returns -1 for an empty queue. With no selection the walk starts at 0.
func (q *Queue) NextIndex() int {
	n := q.playlist.Len()
	if n == 0 {
		return -1
	}
	return (q.currentIndex + 1) % n
}

// PreviousIndex returns the predecessor of the current index in a cyclic walk.
// Returns -1 for an empty queue. With no selection the walk starts at the end.
func (q *Queue) PreviousIndex() int {
	n := q.playlist.Len()
	if n == 0 {
		return -1
	}
	if q.currentIndex < 0 {
		return n - 1
	}
	return (q.currentIndex - 1 + n) % n
}

// ShuffleIndex picks a pseudo-random index using intn (same contract as
// rand.IntN). The current index is excluded when the queue holds more than
// one track. Returns -1 for an empty queue.
func (q *Queue) ShuffleIndex(intn func(n int) int) int {
	n := q.playlist.Len()
	switch {
	case n == 0:
		return -1
	case n == 1:
		return 0
	case q.currentIndex < 0 || q.currentIndex >= n:
		return intn(n)
	}
	i := intn(n - 1)
	if i >= q.currentIndex {
		i++
	}
	return i
}

// Add appends tracks to the queue without changing the selection.
func (q *Queue) Add(tracks ...Track) {
	q.playlist.Add(tracks...)
}

// Replace swaps the queue contents. The selection follows the selected track
// if the new contents still contain it (matched by ID), otherwise it is
// cleared. Returns the new current index.
func (q *Queue) Replace(tracks ...Track) int {
	var currentID string
	if cur := q.Current(); cur != nil {
		currentID = cur.ID
	}
	q.playlist.Clear()
	q.playlist.Add(tracks...)
	q.currentIndex = -1
	if currentID != "" {
		q.currentIndex = q.playlist.IndexOf(currentID)
	}
	return q.currentIndex
}

// RemoveAt removes the track at the given index.
// Adjusts currentIndex if necessary.
func (q *Queue) RemoveAt(index int) bool {
	if !q.playlist.Remove(index) {
		return false
	}

	if q.currentIndex > index {
		q.currentIndex--
	} else if q.currentIndex == index {
		// Removed track was selected: the selection moves to its successor,
		// wrapping to the first track past the end.
		switch {
		case q.playlist.Len() == 0:
			q.currentIndex = -1
		case q.currentIndex >= q.playlist.Len():
			q.currentIndex = 0
		}
	}

	return true
}

// Clear removes all tracks and clears the selection.
func (q *Queue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
}

// Track returns a copy of the track at index, or nil.
func (q *Queue) Track(index int) *Track {
	return q.playlist.Track(index)
}

// Tracks returns all tracks in the queue.
func (q *Queue) Tracks() []Track {
	return q.playlist.Tracks()
}

// IndexOf returns the index of the track with the given ID, or -1.
func (q *Queue) IndexOf(id string) int {
	return q.playlist.IndexOf(id)
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
