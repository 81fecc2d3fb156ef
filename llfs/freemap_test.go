package llfs_test

import (
	"testing"

	"github.com/sofiabesenski4/filesystem/errors"
	"github.com/sofiabesenski4/filesystem/llfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeBlockVector_ReservedRangeStartsUsed(t *testing.T) {
	fbv := llfs.NewFreeBlockVector()
	for b := llfs.BlockID(0); b < 16; b++ {
		assert.False(t, fbv.IsFree(b), "block %d should start reserved", b)
	}
	assert.True(t, fbv.IsFree(16))
}

func TestFreeBlockVector_AllocateSkipsReserved(t *testing.T) {
	fbv := llfs.NewFreeBlockVector()
	block, err := fbv.Allocate()
	require.NoError(t, err)
	assert.Equal(t, llfs.BlockID(16), block)
	assert.False(t, fbv.IsFree(16))
}

func TestFreeBlockVector_MarkFreeThenReallocate(t *testing.T) {
	fbv := llfs.NewFreeBlockVector()
	first, err := fbv.Allocate()
	require.NoError(t, err)

	fbv.MarkFree(first)
	assert.True(t, fbv.IsFree(first))

	second, err := fbv.Allocate()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFreeBlockVector_ExhaustionReturnsErrNoSpace(t *testing.T) {
	fbv := llfs.NewFreeBlockVector()
	for i := 0; i < llfs.TotalBlocks-16; i++ {
		_, err := fbv.Allocate()
		require.NoError(t, err)
	}
	_, err := fbv.Allocate()
	assert.ErrorIs(t, err, errors.ErrNoSpace)
}

func TestFreeBlockVector_RoundTripBytes(t *testing.T) {
	fbv := llfs.NewFreeBlockVector()
	_, err := fbv.Allocate()
	require.NoError(t, err)

	raw := fbv.Bytes()
	require.Len(t, raw, llfs.BytesPerBlock)

	reloaded := llfs.LoadFreeBlockVector(raw)
	assert.Equal(t, fbv.Bytes(), reloaded.Bytes())
}
