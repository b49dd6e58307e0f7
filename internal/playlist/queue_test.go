// internal/playlist/queue_test.go
package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcQueue() *Queue {
	q := NewQueue()
	q.Add(Track{ID: "a"}, Track{ID: "b"}, Track{ID: "c"})
	return q
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
	if q.NextIndex() != -1 || q.PreviousIndex() != -1 {
		t.Error("index policy on empty queue should return -1")
	}
}

func TestQueue_Add_KeepsSelection(t *testing.T) {
	q := NewQueue()

	q.Add(Track{ID: "a"}, Track{ID: "b"})

	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1 (unchanged)", q.CurrentIndex())
	}
}

func TestQueue_JumpTo(t *testing.T) {
	q := abcQueue()

	tr := q.JumpTo(1)

	if tr == nil || tr.ID != "b" {
		t.Fatalf("JumpTo(1) = %v, want b", tr)
	}
	if q.JumpTo(3) != nil {
		t.Error("JumpTo(3) should return nil")
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("invalid JumpTo changed index to %d", q.CurrentIndex())
	}
}

func TestQueue_NextIndex_CyclicWalk(t *testing.T) {
	q := abcQueue()
	q.JumpTo(0)

	var got []int
	for range 6 {
		i := q.NextIndex()
		got = append(got, i)
		q.JumpTo(i)
	}

	assert.Equal(t, []int{1, 2, 0, 1, 2, 0}, got)
}

func TestQueue_PreviousIndex_CyclicWalk(t *testing.T) {
	q := abcQueue()
	q.JumpTo(0)

	var got []int
	for range 4 {
		i := q.PreviousIndex()
		got = append(got, i)
		q.JumpTo(i)
	}

	assert.Equal(t, []int{2, 1, 0, 2}, got)
}

func TestQueue_NoSelection_WalkStartsAtEnds(t *testing.T) {
	q := abcQueue()

	assert.Equal(t, 0, q.NextIndex())
	assert.Equal(t, 2, q.PreviousIndex())
}

func TestQueue_ShuffleIndex_ExcludesCurrent(t *testing.T) {
	q := abcQueue()
	q.JumpTo(1)

	// intn returning every possible value must never yield the current index
	for r := range 2 {
		i := q.ShuffleIndex(func(n int) int {
			assert.Equal(t, 2, n)
			return r
		})
		assert.NotEqual(t, 1, i)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 3)
	}
}

func TestQueue_ShuffleIndex_SingleTrack(t *testing.T) {
	q := NewQueue()
	q.Add(Track{ID: "a"})
	q.JumpTo(0)

	i := q.ShuffleIndex(func(int) int {
		t.Fatal("intn should not be called for a single track")
		return 0
	})

	assert.Equal(t, 0, i)
}

func TestQueue_IsLast(t *testing.T) {
	q := abcQueue()

	assert.False(t, q.IsLast())
	q.JumpTo(2)
	assert.True(t, q.IsLast())
}

func TestQueue_Replace_FollowsSelection(t *testing.T) {
	q := abcQueue()
	q.JumpTo(1) // b

	idx := q.Replace(Track{ID: "x"}, Track{ID: "y"}, Track{ID: "b"})

	assert.Equal(t, 2, idx)
	assert.Equal(t, "b", q.Current().ID)
}

func TestQueue_Replace_DropsMissingSelection(t *testing.T) {
	q := abcQueue()
	q.JumpTo(1)

	idx := q.Replace(Track{ID: "x"})

	assert.Equal(t, -1, idx)
	assert.Nil(t, q.Current())
}

func TestQueue_RemoveAt(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		remove    int
		wantIndex int
	}{
		{"before current", 2, 0, 1},
		{"after current", 0, 2, 0},
		{"current in middle", 1, 1, 1},
		{"current at end wraps", 2, 2, 0},
		{"invalid index", 1, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := abcQueue()
			q.JumpTo(tt.current)

			ok := q.RemoveAt(tt.remove)

			assert.Equal(t, tt.remove < 3, ok)
			assert.Equal(t, tt.wantIndex, q.CurrentIndex())
		})
	}
}

func TestQueue_RemoveOnlyTrack(t *testing.T) {
	q := NewQueue()
	q.Add(Track{ID: "a"})
	q.JumpTo(0)

	require.True(t, q.RemoveAt(0))
	assert.Equal(t, -1, q.CurrentIndex())
	assert.Nil(t, q.Current())
}

func TestQueue_Clear(t *testing.T) {
	q := abcQueue()
	q.JumpTo(1)

	q.Clear()

	assert.True(t, q.IsEmpty())
	assert.Equal(t, -1, q.CurrentIndex())
}
