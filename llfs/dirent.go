package llfs

import (
	"bytes"
	"fmt"

	"github.com/sofiabesenski4/filesystem/errors"
)

// DirEntrySize is the size, in bytes, of one directory entry: a one-byte
// inode-id followed by a 31-byte NUL-padded name.
const DirEntrySize = 32

// EntriesPerDirBlock is the number of entry slots in a directory block.
const EntriesPerDirBlock = BytesPerBlock / DirEntrySize // 16

// MaxNameLen is the longest name (excluding the NUL terminator) a directory
// entry can hold.
const MaxNameLen = DirEntrySize - 1 // 31

const (
	dotSlot    = 0
	dotdotSlot = 1
	// firstUserSlot is the first slot available for user entries; slots 0
	// and 1 are always "." and ".." (spec.md §3), leaving 14 usable slots.
	firstUserSlot = 2
)

// encodeDirEntry serializes one directory entry.
func encodeDirEntry(id InodeID, name string) ([DirEntrySize]byte, error) {
	var entry [DirEntrySize]byte
	if len(name) > MaxNameLen {
		return entry, errors.ErrNameTooLong.WithMessage(name)
	}
	entry[0] = byte(id)
	copy(entry[1:], name)
	return entry, nil
}

// decodeDirEntry parses one directory entry. An empty name means the slot is
// unused.
func decodeDirEntry(raw []byte) (InodeID, string) {
	id := InodeID(raw[0])
	nameBytes := raw[1:DirEntrySize]
	if nul := bytes.IndexByte(nameBytes, 0); nul >= 0 {
		nameBytes = nameBytes[:nul]
	}
	return id, string(nameBytes)
}

func dirSlot(block []byte, slot int) []byte {
	off := slot * DirEntrySize
	return block[off : off+DirEntrySize]
}

// newDirectoryBlock builds the raw contents of a fresh directory block: "."
// pointing at self, ".." pointing at parent, and every remaining slot empty.
func newDirectoryBlock(self, parent InodeID) [BytesPerBlock]byte {
	var block [BytesPerBlock]byte

	dot, _ := encodeDirEntry(self, ".")
	dotdot, _ := encodeDirEntry(parent, "..")
	copy(dirSlot(block[:], dotSlot), dot[:])
	copy(dirSlot(block[:], dotdotSlot), dotdot[:])

	return block
}

// addDirEntry writes a new entry for (id, name) into the first free user
// slot of a directory block. Returns ErrDirectoryFull if all 14 user slots
// are occupied (spec.md 4.G: at most 14 children per directory).
func addDirEntry(block []byte, id InodeID, name string) error {
	entry, err := encodeDirEntry(id, name)
	if err != nil {
		return err
	}
	for slot := firstUserSlot; slot < EntriesPerDirBlock; slot++ {
		existingID, existingName := decodeDirEntry(dirSlot(block, slot))
		if existingID == 0 && existingName == "" {
			copy(dirSlot(block, slot), entry[:])
			return nil
		}
	}
	return errors.ErrDirectoryFull.WithMessage(
		fmt.Sprintf("directory already has %d entries", EntriesPerDirBlock-firstUserSlot))
}

// removeDirEntry clears every user slot whose name matches, returning the
// inode-id of the first match, or ErrNotFound if none matched. Duplicate
// names are not a legal directory state, but spec.md 4.G requires clearing
// every matching slot rather than just the first found, for determinism.
func removeDirEntry(block []byte, name string) (InodeID, error) {
	var found bool
	var firstID InodeID

	for slot := firstUserSlot; slot < EntriesPerDirBlock; slot++ {
		id, existingName := decodeDirEntry(dirSlot(block, slot))
		if existingName != name {
			continue
		}
		if !found {
			firstID = id
			found = true
		}
		var empty [DirEntrySize]byte
		copy(dirSlot(block, slot), empty[:])
	}

	if !found {
		return 0, errors.ErrNotFound.WithMessage(name)
	}
	return firstID, nil
}

// findDirEntry returns the inode-id bound to name within a directory block,
// searching all 16 slots (so "." and ".." resolve too).
func findDirEntry(block []byte, name string) (InodeID, bool) {
	for slot := 0; slot < EntriesPerDirBlock; slot++ {
		id, existingName := decodeDirEntry(dirSlot(block, slot))
		if existingName == name {
			return id, true
		}
	}
	return 0, false
}

// listDirEntries returns every user entry (excluding "." and "..") in slot
// order.
func listDirEntries(block []byte) []struct {
	ID   InodeID
	Name string
} {
	var entries []struct {
		ID   InodeID
		Name string
	}
	for slot := firstUserSlot; slot < EntriesPerDirBlock; slot++ {
		id, name := decodeDirEntry(dirSlot(block, slot))
		if name != "" {
			entries = append(entries, struct {
				ID   InodeID
				Name string
			}{ID: id, Name: name})
		}
	}
	return entries
}

// isDirectoryEmpty reports whether a directory block has no user entries
// (spec.md 4.I: delete_directory refuses to proceed otherwise).
func isDirectoryEmpty(block []byte) bool {
	return len(listDirEntries(block)) == 0
}
