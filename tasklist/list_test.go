package tasklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id uint32, deadline Tick) Record {
	return Record{TaskID: id, AbsoluteDeadline: deadline}
}

func TestInsertBackAndCount(t *testing.T) {
	active, _, _ := NewSharedLists(4)

	require.NoError(t, active.InsertBack(rec(1, 10)))
	require.NoError(t, active.InsertBack(rec(2, 20)))
	assert.Equal(t, 2, active.Count())

	r, ok := active.Front()
	require.True(t, ok)
	assert.Equal(t, uint32(1), r.TaskID)
}

func TestPoolExhaustion(t *testing.T) {
	active, _, _ := NewSharedLists(1)

	require.NoError(t, active.InsertBack(rec(1, 10)))
	err := active.InsertBack(rec(2, 20))
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestPopFrontEmpty(t *testing.T) {
	active, _, _ := NewSharedLists(2)
	_, err := active.PopFront()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDeleteByIDMissingIsNoop(t *testing.T) {
	active, _, _ := NewSharedLists(2)
	require.NoError(t, active.InsertBack(rec(1, 10)))

	_, ok := active.DeleteByID(999)
	assert.False(t, ok)
	assert.Equal(t, 1, active.Count())
}

func TestSortEDFStableOnTies(t *testing.T) {
	active, _, _ := NewSharedLists(4)
	require.NoError(t, active.InsertBack(rec(2, 500))) // earlier arrival
	require.NoError(t, active.InsertBack(rec(1, 500))) // later arrival, same deadline
	require.NoError(t, active.InsertBack(rec(3, 100)))

	active.SortEDF()

	snap := active.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, uint32(3), snap[0].TaskID)
	// ties keep arrival order: id=2 arrived before id=1 at the same deadline
	assert.Equal(t, uint32(2), snap[1].TaskID)
	assert.Equal(t, uint32(1), snap[2].TaskID)
}

func TestSortEDFIdempotent(t *testing.T) {
	active, _, _ := NewSharedLists(4)
	require.NoError(t, active.InsertBack(rec(1, 300)))
	require.NoError(t, active.InsertBack(rec(2, 100)))
	require.NoError(t, active.InsertBack(rec(3, 200)))

	active.SortEDF()
	first := active.Snapshot()
	active.SortEDF()
	second := active.Snapshot()
	assert.Equal(t, first, second)
}

func TestMoveBetweenSharedLists(t *testing.T) {
	active, completed, overdue := NewSharedLists(2)
	require.NoError(t, active.InsertBack(rec(1, 10)))

	r, ok := active.DeleteByID(1)
	require.True(t, ok)
	require.NoError(t, completed.InsertBack(r.WithCompletion(5)))

	assert.Equal(t, 0, active.Count())
	assert.Equal(t, 1, completed.Count())
	assert.Equal(t, 0, overdue.Count())

	snap := completed.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].MetDeadline())
}

func TestTraverseDoesNotMutate(t *testing.T) {
	active, _, _ := NewSharedLists(4)
	require.NoError(t, active.InsertBack(rec(1, 10)))
	require.NoError(t, active.InsertBack(rec(2, 20)))

	var seen []uint32
	active.Traverse(func(r Record) bool {
		seen = append(seen, r.TaskID)
		return true
	})
	assert.Equal(t, []uint32{1, 2}, seen)
	assert.Equal(t, 2, active.Count())
}
