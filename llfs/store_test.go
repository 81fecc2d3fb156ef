package llfs_test

import (
	"io"
	"testing"

	"github.com/sofiabesenski4/filesystem/errors"
	"github.com/sofiabesenski4/filesystem/llfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func newBlankStream() io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(make([]byte, llfs.DeviceSize))
}

func formatStore(t *testing.T) (*llfs.Store, io.ReadWriteSeeker) {
	t.Helper()
	stream := newBlankStream()
	store, err := llfs.Format(stream)
	require.NoError(t, err)
	return store, stream
}

func TestFormat_WritesValidSuperblock(t *testing.T) {
	store, _ := formatStore(t)
	sb := store.Superblock()
	assert.Equal(t, llfs.Magic, sb.Magic)
	assert.EqualValues(t, llfs.TotalBlocks, sb.BlockCount)
	assert.EqualValues(t, llfs.MaxInodes, sb.InodeCount)
}

func TestFormat_RootDirectoryIsSelfParented(t *testing.T) {
	store, _ := formatStore(t)
	id, err := store.FindFileInodeID("/")
	require.NoError(t, err)
	assert.Equal(t, llfs.RootInodeID, id)
}

func TestFormat_ThenMountSeesSameRoot(t *testing.T) {
	stream := newBlankStream()
	_, err := llfs.Format(stream)
	require.NoError(t, err)

	store, err := llfs.Mount(stream)
	require.NoError(t, err)

	id, err := store.FindFileInodeID("/")
	require.NoError(t, err)
	assert.Equal(t, llfs.RootInodeID, id)
	assert.NoError(t, store.Verify())
}

func TestCreateDirectory_ResolvesUnderRoot(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))

	id, err := store.FindFileInodeID("/testdir1")
	require.NoError(t, err)
	assert.NotEqual(t, llfs.RootInodeID, id)
	assert.NoError(t, store.Verify())
}

func TestCreateDirectory_MissingParentFails(t *testing.T) {
	store, _ := formatStore(t)
	err := store.CreateDirectory("/nope/child")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUploadDownloadFile_SmallFile(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))

	content := []byte("hello from a small test file")
	require.NoError(t, store.UploadFile("/testdir1/smalltestfile", content))

	got, err := store.DownloadFile("/testdir1/smalltestfile")
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.NoError(t, store.Verify())
}

func TestUploadDownloadFile_SpansSingleIndirectBlock(t *testing.T) {
	store, _ := formatStore(t)

	content := make([]byte, llfs.NumDirectPointers*llfs.BytesPerBlock+3*llfs.BytesPerBlock+17)
	for i := range content {
		content[i] = byte(i % 251)
	}
	require.NoError(t, store.UploadFile("/largetestfile", content))

	got, err := store.DownloadFile("/largetestfile")
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.NoError(t, store.Verify())
}

func TestUploadFile_EmptyParentDirectoryFull(t *testing.T) {
	store, _ := formatStore(t)
	for i := 0; i < llfs.EntriesPerDirBlock-2; i++ {
		require.NoError(t, store.UploadFile("/file"+string(rune('a'+i)), []byte("x")))
	}
	err := store.UploadFile("/onemore", []byte("x"))
	assert.ErrorIs(t, err, errors.ErrDirectoryFull)
}

func TestDeleteFile_FreesSpaceForReuse(t *testing.T) {
	store, _ := formatStore(t)
	content := make([]byte, 5*llfs.BytesPerBlock)
	require.NoError(t, store.UploadFile("/bigfile", content))

	require.NoError(t, store.DeleteFile("/bigfile"))

	_, err := store.FindFileInodeID("/bigfile")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.NoError(t, store.Verify())

	// The freed blocks must be available again.
	require.NoError(t, store.UploadFile("/bigfile2", content))
	assert.NoError(t, store.Verify())
}

func TestDeleteFile_ZeroesFreedBlocks(t *testing.T) {
	store, _ := formatStore(t)
	content := make([]byte, 3*llfs.BytesPerBlock)
	for i := range content {
		content[i] = 0xAB
	}
	require.NoError(t, store.UploadFile("/bigfile", content))

	inode, err := store.InodeAt("/bigfile")
	require.NoError(t, err)
	dataBlock := inode.Direct[0]

	require.NoError(t, store.DeleteFile("/bigfile"))

	raw, err := store.Device.ReadBlock(dataBlock)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, llfs.BytesPerBlock), raw, "freed block must be zeroed")
}

// TestUploadFile_PartialFinalBlockIsZeroPadded exercises universal
// invariant 5: a reused block written with a partial final chunk must have
// zero padding after the payload, not leftover bytes from its previous
// occupant.
func TestUploadFile_PartialFinalBlockIsZeroPadded(t *testing.T) {
	store, _ := formatStore(t)

	dirty := make([]byte, llfs.BytesPerBlock)
	for i := range dirty {
		dirty[i] = 0xFF
	}
	require.NoError(t, store.UploadFile("/dirty", dirty))
	require.NoError(t, store.DeleteFile("/dirty"))

	payload := []byte("partial")
	require.NoError(t, store.UploadFile("/clean", payload))

	inode, err := store.InodeAt("/clean")
	require.NoError(t, err)

	raw, err := store.Device.ReadBlock(inode.Direct[0])
	require.NoError(t, err)
	assert.Equal(t, payload, raw[:len(payload)])
	assert.Equal(t, make([]byte, llfs.BytesPerBlock-len(payload)), raw[len(payload):],
		"padding past the payload must be zero, not a prior occupant's bytes")
}

func TestDeleteDirectory_RefusesNonEmpty(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))
	require.NoError(t, store.UploadFile("/testdir1/smalltestfile", []byte("x")))

	err := store.DeleteDirectory("/testdir1")
	assert.ErrorIs(t, err, errors.ErrDirectoryNotEmpty)
}

func TestDeleteDirectory_SucceedsWhenEmpty(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))
	require.NoError(t, store.DeleteDirectory("/testdir1"))

	_, err := store.FindFileInodeID("/testdir1")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.NoError(t, store.Verify())
}

func TestDeleteFilepath_DispatchesByType(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))
	require.NoError(t, store.UploadFile("/testdir1/smalltestfile", []byte("x")))

	require.NoError(t, store.DeleteFilepath("/testdir1/smalltestfile"))
	require.NoError(t, store.DeleteFilepath("/testdir1"))

	_, err := store.FindFileInodeID("/testdir1")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDownloadFile_NotAFile(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))

	_, err := store.DownloadFile("/testdir1")
	assert.Error(t, err)
}

func TestInodeReportCSV_ListsRootAndChildren(t *testing.T) {
	store, _ := formatStore(t)
	require.NoError(t, store.CreateDirectory("/testdir1"))
	require.NoError(t, store.UploadFile("/testdir1/smalltestfile", []byte("hi")))

	csvText, err := store.InodeReportCSV()
	require.NoError(t, err)
	assert.Contains(t, csvText, "inode_id")
	assert.Contains(t, csvText, "/testdir1/")
	assert.Contains(t, csvText, "smalltestfile")
}
