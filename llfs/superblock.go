package llfs

import (
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// Magic identifies an LLFS-formatted device. Stored as the first four bytes
// of block 0.
const Magic uint32 = 0x4c4c4653 // "LLFS" in ASCII when read big-endian; stored little-endian, so the on-disk bytes read "SFLL"

// Superblock is the block-0 header: magic, total block count, total inode
// count. spec.md's original source never wrote this block; DESIGN.md records
// the decision to always write it during Format.
type Superblock struct {
	Magic      uint32
	BlockCount uint32
	InodeCount uint32
}

// EncodeSuperblock serializes a Superblock into a full 512-byte block,
// following the teacher's bytewriter + encoding/binary codec pattern
// (file_systems/unixv1/format.go).
func EncodeSuperblock(sb Superblock) [BytesPerBlock]byte {
	var block [BytesPerBlock]byte
	w := bytewriter.New(block[:])
	binary.Write(w, binary.LittleEndian, sb.Magic)
	binary.Write(w, binary.LittleEndian, sb.BlockCount)
	binary.Write(w, binary.LittleEndian, sb.InodeCount)
	return block
}

// DecodeSuperblock parses the contents of block 0.
func DecodeSuperblock(raw []byte) Superblock {
	return Superblock{
		Magic:      binary.LittleEndian.Uint32(raw[0:4]),
		BlockCount: binary.LittleEndian.Uint32(raw[4:8]),
		InodeCount: binary.LittleEndian.Uint32(raw[8:12]),
	}
}
