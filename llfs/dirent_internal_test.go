package llfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectoryBlock_DotAndDotDot(t *testing.T) {
	block := newDirectoryBlock(5, 2)

	id, name := decodeDirEntry(dirSlot(block[:], dotSlot))
	assert.Equal(t, InodeID(5), id)
	assert.Equal(t, ".", name)

	id, name = decodeDirEntry(dirSlot(block[:], dotdotSlot))
	assert.Equal(t, InodeID(2), id)
	assert.Equal(t, "..", name)

	assert.True(t, isDirectoryEmpty(block[:]))
}

func TestAddDirEntry_FillsFourteenSlots(t *testing.T) {
	block := newDirectoryBlock(0, 0)

	for i := 0; i < EntriesPerDirBlock-firstUserSlot; i++ {
		err := addDirEntry(block[:], InodeID(i+1), string(rune('a'+i)))
		require.NoError(t, err)
	}

	err := addDirEntry(block[:], InodeID(99), "overflow")
	assert.Error(t, err)
	assert.False(t, isDirectoryEmpty(block[:]))
}

func TestRemoveDirEntry_ThenNotFound(t *testing.T) {
	block := newDirectoryBlock(0, 0)
	require.NoError(t, addDirEntry(block[:], 7, "testdir1"))

	id, err := removeDirEntry(block[:], "testdir1")
	require.NoError(t, err)
	assert.Equal(t, InodeID(7), id)
	assert.True(t, isDirectoryEmpty(block[:]))

	_, err = removeDirEntry(block[:], "testdir1")
	assert.Error(t, err)
}

func TestRemoveDirEntry_ClearsAllDuplicates(t *testing.T) {
	block := newDirectoryBlock(0, 0)
	// Duplicate names aren't a legal directory state, but the fix for
	// removeDirEntry must clear every matching slot, not just the first.
	require.NoError(t, addDirEntry(block[:], 7, "dup"))
	require.NoError(t, addDirEntry(block[:], 9, "dup"))

	id, err := removeDirEntry(block[:], "dup")
	require.NoError(t, err)
	assert.Equal(t, InodeID(7), id)
	assert.True(t, isDirectoryEmpty(block[:]))

	_, err = removeDirEntry(block[:], "dup")
	assert.Error(t, err)
}

func TestEncodeDirEntry_NameTooLong(t *testing.T) {
	longName := ""
	for i := 0; i < MaxNameLen+1; i++ {
		longName += "x"
	}
	_, err := encodeDirEntry(1, longName)
	assert.Error(t, err)
}

func TestFindDirEntry_ResolvesDotDot(t *testing.T) {
	block := newDirectoryBlock(9, 3)
	id, ok := findDirEntry(block[:], "..")
	require.True(t, ok)
	assert.Equal(t, InodeID(3), id)
}
