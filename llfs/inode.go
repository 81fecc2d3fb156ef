package llfs

import (
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"
	"github.com/sofiabesenski4/filesystem/errors"
)

// InodeBytes is the on-disk size of one inode record. spec.md §9 notes the
// original source stores 33 bytes (32 documented + a trailing inode-id
// self-reference byte) despite documenting 32; we keep the 33-byte record
// verbatim rather than silently dropping the self-reference byte, and treat
// it as a read-only consistency check against the inode map (see
// Store.readInode).
const InodeBytes = 33

// NumDirectPointers is the number of direct block pointers embedded in an
// inode.
const NumDirectPointers = 10

// FileType is an inode's type tag.
type FileType byte

const (
	FileTypeFlat      FileType = 'f'
	FileTypeDirectory FileType = 'd'
)

// Inode is the decoded form of a 33-byte on-disk inode record (spec.md §3).
type Inode struct {
	Size           uint32
	Type           FileType
	Direct         [NumDirectPointers]BlockID
	SingleIndirect BlockID
	DoubleIndirect BlockID
	ID             InodeID
}

// EncodeInode serializes an inode into its 33-byte on-disk form.
func EncodeInode(inode Inode) [InodeBytes]byte {
	var block [InodeBytes]byte
	w := bytewriter.New(block[:])

	binary.Write(w, binary.LittleEndian, inode.Size)
	binary.Write(w, binary.LittleEndian, uint32(inode.Type))
	for _, ptr := range inode.Direct {
		binary.Write(w, binary.LittleEndian, uint16(ptr))
	}
	binary.Write(w, binary.LittleEndian, uint16(inode.SingleIndirect))
	binary.Write(w, binary.LittleEndian, uint16(inode.DoubleIndirect))
	binary.Write(w, binary.LittleEndian, uint8(inode.ID))

	return block
}

// DecodeInode parses a 33-byte on-disk inode record.
func DecodeInode(raw []byte) Inode {
	var inode Inode
	inode.Size = binary.LittleEndian.Uint32(raw[0:4])
	inode.Type = FileType(binary.LittleEndian.Uint32(raw[4:8]))
	for i := 0; i < NumDirectPointers; i++ {
		off := 8 + i*2
		inode.Direct[i] = BlockID(binary.LittleEndian.Uint16(raw[off : off+2]))
	}
	inode.SingleIndirect = BlockID(binary.LittleEndian.Uint16(raw[28:30]))
	inode.DoubleIndirect = BlockID(binary.LittleEndian.Uint16(raw[30:32]))
	inode.ID = InodeID(raw[32])
	return inode
}

// BlockCount returns ceil(Size / BytesPerBlock), the number of data blocks an
// inode with this size must have populated (spec.md invariant 4).
func (inode Inode) BlockCount() uint32 {
	if inode.Size == 0 {
		return 0
	}
	return (inode.Size + BytesPerBlock - 1) / BytesPerBlock
}

// CheckType validates the inode's type tag, returning ErrCorruptInode if
// it's neither 'f' nor 'd' (spec.md 4.I, delete_filepath's dispatch).
func (inode Inode) CheckType() error {
	switch inode.Type {
	case FileTypeFlat, FileTypeDirectory:
		return nil
	default:
		return errors.ErrCorruptInode.WithMessage(
			fmt.Sprintf("inode %d has type tag %v", inode.ID, inode.Type))
	}
}
