package llfs

import (
	"io"

	"github.com/sofiabesenski4/filesystem/errors"
)

// Block indices of the fixed-location metadata structures (spec.md §3).
const (
	SuperblockAddr      BlockID = 0
	FreeBlockVectorAddr BlockID = 1
	InodeMapAddr        BlockID = 2
)

// RootInodeID is the inode-id of the top-level directory, always allocated
// by Format.
const RootInodeID InodeID = 0

// Store is a mounted LLFS volume: the backing block device plus its three
// cached metadata structures (FBV, inode map, superblock). Every higher-level
// operation in the llfs package (directory and file manipulation, path
// resolution, fsck) is a method on *Store.
type Store struct {
	Device *BlockDevice
	FBV    *FreeBlockVector
	Inodes *InodeMap
	sb     Superblock
}

// Mount reads the metadata blocks off an already-formatted stream and
// returns a ready-to-use Store. It does not validate the magic number itself
// (see Verify for that); callers that care should check Store.Superblock().
func Mount(stream io.ReadWriteSeeker) (*Store, error) {
	device := NewBlockDevice(stream)

	rawSuper, err := device.ReadBlock(SuperblockAddr)
	if err != nil {
		return nil, err
	}
	rawFBV, err := device.ReadBlock(FreeBlockVectorAddr)
	if err != nil {
		return nil, err
	}
	rawInodeMap, err := device.ReadBlock(InodeMapAddr)
	if err != nil {
		return nil, err
	}

	return &Store{
		Device: device,
		FBV:    LoadFreeBlockVector(rawFBV),
		Inodes: LoadInodeMap(rawInodeMap),
		sb:     DecodeSuperblock(rawSuper),
	}, nil
}

// Format zero-fills the entire stream, writes a fresh superblock, FBV, and
// inode map, and creates the root directory at inode-id 0. Unlike the
// original source (which never wrote the superblock and parented the root
// directory to id 255), Format always writes a valid superblock and parents
// the root directory to itself (id 0); see SPEC_FULL.md §1.
func Format(stream io.ReadWriteSeeker) (*Store, error) {
	device := NewBlockDevice(stream)
	if err := device.Init(); err != nil {
		return nil, err
	}

	store := &Store{
		Device: device,
		FBV:    NewFreeBlockVector(),
		Inodes: NewInodeMap(),
		sb: Superblock{
			Magic:      Magic,
			BlockCount: TotalBlocks,
			InodeCount: MaxInodes,
		},
	}

	if _, err := store.createDirectory(RootInodeID); err != nil {
		return nil, err
	}

	if err := store.flushMetadata(); err != nil {
		return nil, err
	}
	return store, nil
}

// Superblock returns the volume's header fields.
func (s *Store) Superblock() Superblock {
	return s.sb
}

// flushMetadata writes the superblock, FBV, and inode map back to their
// fixed blocks. Every mutating operation calls this before returning so the
// on-disk image never lags the in-memory structures it handed back to the
// caller.
func (s *Store) flushMetadata() error {
	super := EncodeSuperblock(s.sb)
	if err := s.Device.WriteFullBlock(SuperblockAddr, super); err != nil {
		return err
	}
	if err := s.Device.WriteBlock(FreeBlockVectorAddr, s.FBV.Bytes()); err != nil {
		return err
	}
	if err := s.Device.WriteBlock(InodeMapAddr, s.Inodes.Bytes()); err != nil {
		return err
	}
	return nil
}

// readInode loads and decodes the inode for the given id, cross-checking its
// self-reference byte against the id it was looked up by (spec.md §9's
// decision to treat the 33rd byte as a consistency check rather than load-
// bearing data).
func (s *Store) readInode(id InodeID) (Inode, error) {
	addr := s.Inodes.Address(id)
	if addr == 0 {
		return Inode{}, errors.ErrNotFound.WithMessage("inode id has no assigned block")
	}
	raw, err := s.Device.ReadBlock(addr)
	if err != nil {
		return Inode{}, err
	}
	inode := DecodeInode(raw[:InodeBytes])
	if inode.ID != id {
		return Inode{}, errors.ErrCorruptInode.WithMessage(
			"inode map entry and inode self-reference byte disagree")
	}
	if err := inode.CheckType(); err != nil {
		return Inode{}, err
	}
	return inode, nil
}

// writeInode serializes and writes an inode to its already-assigned block.
func (s *Store) writeInode(inode Inode) error {
	addr := s.Inodes.Address(inode.ID)
	if addr == 0 {
		return errors.ErrCorruptInode.WithMessage("writeInode called on unassigned inode id")
	}
	encoded := EncodeInode(inode)
	buf := make([]byte, BytesPerBlock)
	copy(buf, encoded[:])
	return s.Device.WriteBlock(addr, buf)
}

// allocateInode assigns the next free inode-id to a freshly allocated block
// and returns an empty inode of the given type, not yet written to disk.
func (s *Store) allocateInode(fileType FileType) (Inode, error) {
	id, err := s.Inodes.NextFree()
	if err != nil {
		return Inode{}, err
	}
	addr, err := s.FBV.Allocate()
	if err != nil {
		return Inode{}, err
	}
	s.Inodes.Assign(id, addr)

	return Inode{
		Size: 0,
		Type: fileType,
		ID:   id,
	}, nil
}

// releaseBlock zeros a block and marks it free in the FBV, matching
// spec.md 4.I/4.F's repeated requirement that every freed block ("that data
// block", "the directory data block", "the inode block") is zeroed before
// its FBV bit is flipped. Reusing a freed block later must never surface
// stale bytes past the new content's end (universal invariant 5).
func (s *Store) releaseBlock(addr BlockID) error {
	if err := s.Device.ZeroBlock(addr); err != nil {
		return err
	}
	s.FBV.MarkFree(addr)
	return nil
}

// freeInode releases an inode's own block and clears its inode-map entry. It
// does not free the inode's data blocks; callers must do that first (see
// freeData).
func (s *Store) freeInode(id InodeID) error {
	addr := s.Inodes.Address(id)
	if addr != 0 {
		if err := s.releaseBlock(addr); err != nil {
			return err
		}
	}
	s.Inodes.Clear(id)
	return nil
}
