package memimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndReadAt(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, []byte{1, 2, 3, 4})
	img.Set(0x104, []byte{5, 6, 7, 8}) // contiguous, coalesces

	got := make([]byte, 8)
	require.NoError(t, img.ReadAt(got, 0x100))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, got)

	// Partial read in the middle.
	got = make([]byte, 2)
	require.NoError(t, img.ReadAt(got, 0x103))
	assert.Equal(t, []byte{4, 5}, got)
}

func TestReadAcrossSeparateLoads(t *testing.T) {
	t.Parallel()

	img := New()
	// Loaded out of order, adjacent in address space.
	img.Set(0x210, []byte{0xBB, 0xCC})
	img.Set(0x200, make([]byte, 0x10))

	got := make([]byte, 0x12)
	require.NoError(t, img.ReadAt(got, 0x200))
	assert.Equal(t, byte(0xBB), got[0x10])
}

func TestGapDistinctFromZero(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, []byte{0, 0, 0, 0})

	require.NoError(t, img.ReadAt(make([]byte, 4), 0x100))

	err := img.ReadAt(make([]byte, 1), 0x104)
	var gap *GapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, uint32(0x104), gap.Address)
}

func TestReadAtReportsFirstGap(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, make([]byte, 0x10))
	img.Set(0x120, make([]byte, 0x10))

	err := img.ReadAt(make([]byte, 0x30), 0x100)
	var gap *GapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, uint32(0x110), gap.Address)
}

func TestLastWriteWins(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, []byte{1, 2, 3, 4})
	img.Set(0x102, []byte{0xAA, 0xBB})

	got := make([]byte, 4)
	require.NoError(t, img.ReadAt(got, 0x100))
	assert.Equal(t, []byte{1, 2, 0xAA, 0xBB}, got)
}

func TestSetSpanningGapAndSegments(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, []byte{1, 2})
	img.Set(0x106, []byte{7, 8})
	// Spans first segment, the gap, and the second segment.
	img.Set(0x101, []byte{0x11, 0x12, 0x13, 0x14, 0x15, 0x16})

	got := make([]byte, 8)
	require.NoError(t, img.ReadAt(got, 0x100))
	assert.Equal(t, []byte{1, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 8}, got)
}

func TestWriteAtDoesNotExtendCoverage(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, make([]byte, 4))

	// Fully covered: fine.
	require.NoError(t, img.WriteAt([]byte{9, 9}, 0x101))

	// Reaches one byte past coverage: rejected, coverage unchanged.
	err := img.WriteAt([]byte{1, 2}, 0x103)
	var gap *GapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, uint32(0x104), gap.Address)
	assert.False(t, img.Covered(0x104, 1))

	// The failed write must not have modified anything either.
	got := make([]byte, 4)
	require.NoError(t, img.ReadAt(got, 0x100))
	assert.Equal(t, []byte{0, 9, 9, 0}, got)
}

func TestCovered(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x100, make([]byte, 0x10))

	assert.True(t, img.Covered(0x100, 0x10))
	assert.True(t, img.Covered(0x10F, 1))
	assert.False(t, img.Covered(0x100, 0x11))
	assert.False(t, img.Covered(0xFF, 2))
	assert.False(t, img.Covered(0x200, 1))
}

func TestWalk(t *testing.T) {
	t.Parallel()

	img := New()
	img.Set(0x104, []byte{1, 2})
	img.Set(0x10A, []byte{3, 4})

	type run struct {
		addr    uint32
		length  int
		covered bool
	}
	var runs []run
	err := img.Walk(0x100, 0x10, func(addr uint32, length int, data []byte) error {
		runs = append(runs, run{addr: addr, length: length, covered: data != nil})
		if data != nil {
			assert.Len(t, data, length)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []run{
		{0x100, 4, false},
		{0x104, 2, true},
		{0x106, 4, false},
		{0x10A, 2, true},
		{0x10C, 4, false},
	}, runs)
}

func TestExtent(t *testing.T) {
	t.Parallel()

	img := New()
	_, _, ok := img.Extent()
	assert.False(t, ok)

	img.Set(0x8000, make([]byte, 0x20))
	img.Set(0x100, make([]byte, 4))

	lo, hi, ok := img.Extent()
	require.True(t, ok)
	assert.Equal(t, uint32(0x100), lo)
	assert.Equal(t, uint64(0x8020), hi)
}
