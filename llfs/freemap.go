package llfs

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/sofiabesenski4/filesystem/errors"
)

// reservedBlocks is the number of low blocks that are permanently reserved
// for the superblock, FBV, inode map, and scratch space (spec.md §3: "Blocks
// 0-15 ... are permanently marked in-use").
const reservedBlocks = 16

// FreeBlockVector is the FBV stored at block 1: one bit per block, LSB-first
// within each byte, where a set bit means the block is free. This is the
// opposite polarity of the teacher's allocation bitmaps (there, a set bit
// means "in use"); LLFS's on-disk format mandates 1 == free, so the helper
// methods below are named and implemented around that meaning directly
// rather than inverting at every call site.
type FreeBlockVector struct {
	bits bitmap.Bitmap
}

// NewFreeBlockVector creates a fresh FBV with every block marked free except
// the reserved low region.
func NewFreeBlockVector() *FreeBlockVector {
	bits := bitmap.New(TotalBlocks)
	for i := 0; i < TotalBlocks; i++ {
		bits.Set(i, true)
	}
	for i := 0; i < reservedBlocks; i++ {
		bits.Set(i, false)
	}
	return &FreeBlockVector{bits: bits}
}

// LoadFreeBlockVector parses an FBV from the raw bytes of block 1.
func LoadFreeBlockVector(raw []byte) *FreeBlockVector {
	bits := bitmap.New(TotalBlocks)
	copy(bits, raw)
	return &FreeBlockVector{bits: bits}
}

// Bytes returns the on-disk representation of the FBV, suitable for writing
// to block 1 verbatim.
func (fbv *FreeBlockVector) Bytes() []byte {
	return fbv.bits.Data(false)[:BytesPerBlock]
}

// IsFree reports whether block b is currently marked free.
func (fbv *FreeBlockVector) IsFree(b BlockID) bool {
	return fbv.bits.Get(int(b))
}

// MarkFree sets block b's bit to 1 (free) using an explicit OR-mask, per
// spec.md 4.C and DESIGN.md's decision to avoid the original's XOR-based
// toggle.
func (fbv *FreeBlockVector) MarkFree(b BlockID) {
	fbv.bits.Set(int(b), true)
}

// MarkUsed clears block b's bit to 0 (in use) using an explicit AND-NOT
// mask — i.e. a direct set-to-false, which is robust regardless of the
// bit's prior state. spec.md 4.C calls out that the original's XOR-based
// reset_fbv_bit is only safe when invariant (1) already holds; Set(i, false)
// has no such precondition.
func (fbv *FreeBlockVector) MarkUsed(b BlockID) {
	fbv.bits.Set(int(b), false)
}

// FindFree scans the FBV bytewise starting after the reserved region, then
// bit-wise LSB-first within each byte, and returns the first free block
// found. Returns ErrNoSpace if none is free.
func (fbv *FreeBlockVector) FindFree() (BlockID, error) {
	for i := reservedBlocks; i < TotalBlocks; i++ {
		if fbv.bits.Get(i) {
			return BlockID(i), nil
		}
	}
	return 0, errors.ErrNoSpace.WithMessage(
		fmt.Sprintf("no free block in [%d, %d)", reservedBlocks, TotalBlocks))
}

// Allocate finds a free block, marks it used, and returns its address.
func (fbv *FreeBlockVector) Allocate() (BlockID, error) {
	block, err := fbv.FindFree()
	if err != nil {
		return 0, err
	}
	fbv.MarkUsed(block)
	return block, nil
}
