package llfs

import (
	"encoding/binary"
	"fmt"

	"github.com/sofiabesenski4/filesystem/errors"
)

// MaxInodes is the number of inode-id slots in the inode map (spec.md §3:
// "Inode-id 0 is reserved for the root directory", ids are one byte wide).
const MaxInodes = 256

// InodeID identifies a live file-system entity. 0 is always the root
// directory.
type InodeID uint8

// InodeMap is the table at block 2: 256 little-endian u16 block addresses,
// indexed by inode-id. A value of 0 means the id is unallocated.
type InodeMap struct {
	addresses [MaxInodes]BlockID
}

// NewInodeMap returns an empty inode map (every slot unallocated).
func NewInodeMap() *InodeMap {
	return &InodeMap{}
}

// LoadInodeMap parses the raw contents of block 2.
func LoadInodeMap(raw []byte) *InodeMap {
	m := &InodeMap{}
	for i := 0; i < MaxInodes; i++ {
		m.addresses[i] = BlockID(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return m
}

// Bytes serializes the inode map for writing to block 2. Unlike the
// original's byte-at-a-time `assign_location_to_inode_map`, every slot is
// written as a proper little-endian u16 (spec.md 4.D).
func (m *InodeMap) Bytes() []byte {
	raw := make([]byte, BytesPerBlock)
	for i := 0; i < MaxInodes; i++ {
		binary.LittleEndian.PutUint16(raw[i*2:i*2+2], uint16(m.addresses[i]))
	}
	return raw
}

// Address returns the block address of the inode with the given id, or 0 if
// unallocated.
func (m *InodeMap) Address(id InodeID) BlockID {
	return m.addresses[id]
}

// Assign records the block address of an inode-id.
func (m *InodeMap) Assign(id InodeID, addr BlockID) {
	m.addresses[id] = addr
}

// Clear marks an inode-id as unallocated.
func (m *InodeMap) Clear(id InodeID) {
	m.addresses[id] = 0
}

// NextFree returns the first unallocated inode-id, scanning 0..255 in order.
// Returns ErrNoInodeSlots if the map is full.
func (m *InodeMap) NextFree() (InodeID, error) {
	for i := 0; i < MaxInodes; i++ {
		if m.addresses[i] == 0 {
			return InodeID(i), nil
		}
	}
	return 0, errors.ErrNoInodeSlots.WithMessage(
		fmt.Sprintf("no free slot among %d inode ids", MaxInodes))
}
