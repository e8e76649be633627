package memory_test

import (
	"testing"

	"github.com/jcorbin/goforth/ints"
	"github.com/jcorbin/goforth/memory"
	"github.com/stretchr/testify/require"
)

func TestAppendGrowsAndReadsBack(t *testing.T) {
	var m memory.Memory
	m.PageSize = 4

	addr, ok := m.Append(ints.Int(5))
	require.True(t, ok)
	require.Equal(t, uint(0), addr)
	require.Equal(t, uint(1), m.Size())

	addr2, ok := m.Append(ints.Int(9), ints.Int(10))
	require.True(t, ok)
	require.Equal(t, uint(1), addr2)
	require.Equal(t, uint(3), m.Size())

	v, ok := m.Load(0)
	require.True(t, ok)
	require.Equal(t, ints.Int(5), v)

	v, ok = m.Load(2)
	require.True(t, ok)
	require.Equal(t, ints.Int(10), v)
}

func TestLoadUnallocatedReadsZero(t *testing.T) {
	var m memory.Memory
	v, ok := m.Load(100)
	require.True(t, ok)
	require.Equal(t, ints.Int(0), v)
}

func TestStorAtSizeActsLikeAppend(t *testing.T) {
	var m memory.Memory
	m.PageSize = 4
	m.Append(ints.Int(1), ints.Int(2))
	ok := m.Stor(m.Size(), ints.Int(3))
	require.True(t, ok)
	v, ok := m.Load(2)
	require.True(t, ok)
	require.Equal(t, ints.Int(3), v)
}

func TestLimitRejectsOutOfBoundWrites(t *testing.T) {
	var m memory.Memory
	m.PageSize = 4
	m.Limit = 2
	_, ok := m.Append(ints.Int(1), ints.Int(2), ints.Int(3))
	require.False(t, ok, "appending past Limit must fail")
}

func TestLoadBeyondLimitFails(t *testing.T) {
	var m memory.Memory
	m.Limit = 4
	_, ok := m.Load(10)
	require.False(t, ok)
}
