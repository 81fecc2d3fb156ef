package llfs

import (
	"encoding/binary"
)

// PointersPerIndirectBlock is the number of block pointers an indirect block
// holds: 512 bytes / 2 bytes per pointer.
const PointersPerIndirectBlock = BytesPerBlock / 2 // 256

// MaxDataBlocks is the largest number of data blocks a single inode can
// address: 10 direct, 256 through the single-indirect block, and
// 256*256 through the double-indirect block (spec.md §3).
const MaxDataBlocks = NumDirectPointers + PointersPerIndirectBlock + PointersPerIndirectBlock*PointersPerIndirectBlock

func encodeIndirectBlock(ptrs []BlockID) [BytesPerBlock]byte {
	var block [BytesPerBlock]byte
	for i, ptr := range ptrs {
		binary.LittleEndian.PutUint16(block[i*2:i*2+2], uint16(ptr))
	}
	return block
}

func decodeIndirectBlock(raw []byte) [PointersPerIndirectBlock]BlockID {
	var ptrs [PointersPerIndirectBlock]BlockID
	for i := 0; i < PointersPerIndirectBlock; i++ {
		ptrs[i] = BlockID(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return ptrs
}

// writeSingleIndirect allocates fresh data blocks for each chunk, writes
// them, records their addresses in a freshly allocated indirect block, and
// returns the indirect block's address. len(chunks) must be at most
// PointersPerIndirectBlock.
func (s *Store) writeSingleIndirect(chunks [][]byte) (BlockID, error) {
	ptrs := make([]BlockID, len(chunks))
	for i, chunk := range chunks {
		addr, err := s.FBV.Allocate()
		if err != nil {
			return 0, err
		}
		if err := s.Device.WriteBlock(addr, chunk); err != nil {
			return 0, err
		}
		ptrs[i] = addr
	}

	indirectAddr, err := s.FBV.Allocate()
	if err != nil {
		return 0, err
	}
	block := encodeIndirectBlock(ptrs)
	if err := s.Device.WriteFullBlock(indirectAddr, block); err != nil {
		return 0, err
	}
	return indirectAddr, nil
}

// writeDoubleIndirect groups chunks into runs of at most
// PointersPerIndirectBlock, writes each run through writeSingleIndirect, and
// records the resulting single-indirect block addresses in a freshly
// allocated double-indirect block.
func (s *Store) writeDoubleIndirect(chunks [][]byte) (BlockID, error) {
	var singlePtrs []BlockID
	for start := 0; start < len(chunks); start += PointersPerIndirectBlock {
		end := start + PointersPerIndirectBlock
		if end > len(chunks) {
			end = len(chunks)
		}
		singleAddr, err := s.writeSingleIndirect(chunks[start:end])
		if err != nil {
			return 0, err
		}
		singlePtrs = append(singlePtrs, singleAddr)
	}

	doubleAddr, err := s.FBV.Allocate()
	if err != nil {
		return 0, err
	}
	block := encodeIndirectBlock(singlePtrs)
	if err := s.Device.WriteFullBlock(doubleAddr, block); err != nil {
		return 0, err
	}
	return doubleAddr, nil
}

// readSingleIndirect reads back `count` data blocks addressed through a
// single-indirect block.
func (s *Store) readSingleIndirect(addr BlockID, count int) ([][]byte, error) {
	raw, err := s.Device.ReadBlock(addr)
	if err != nil {
		return nil, err
	}
	ptrs := decodeIndirectBlock(raw)

	chunks := make([][]byte, count)
	for i := 0; i < count; i++ {
		chunk, err := s.Device.ReadBlock(ptrs[i])
		if err != nil {
			return nil, err
		}
		chunks[i] = chunk
	}
	return chunks, nil
}

// readDoubleIndirect reads back `count` data blocks addressed through a
// double-indirect block.
func (s *Store) readDoubleIndirect(addr BlockID, count int) ([][]byte, error) {
	raw, err := s.Device.ReadBlock(addr)
	if err != nil {
		return nil, err
	}
	singlePtrs := decodeIndirectBlock(raw)

	var chunks [][]byte
	remaining := count
	for i := 0; remaining > 0; i++ {
		take := remaining
		if take > PointersPerIndirectBlock {
			take = PointersPerIndirectBlock
		}
		singleChunks, err := s.readSingleIndirect(singlePtrs[i], take)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, singleChunks...)
		remaining -= take
	}
	return chunks, nil
}

// freeSingleIndirect releases `count` data blocks addressed through a
// single-indirect block, then the indirect block itself (spec.md 4.F's
// clear_single_indirection_block).
func (s *Store) freeSingleIndirect(addr BlockID, count int) error {
	raw, err := s.Device.ReadBlock(addr)
	if err != nil {
		return err
	}
	ptrs := decodeIndirectBlock(raw)
	for i := 0; i < count; i++ {
		if err := s.releaseBlock(ptrs[i]); err != nil {
			return err
		}
	}
	return s.releaseBlock(addr)
}

// freeDoubleIndirect releases `count` data blocks addressed through a
// double-indirect block, the single-indirect blocks that chain them, and the
// double-indirect block itself.
func (s *Store) freeDoubleIndirect(addr BlockID, count int) error {
	raw, err := s.Device.ReadBlock(addr)
	if err != nil {
		return err
	}
	singlePtrs := decodeIndirectBlock(raw)

	remaining := count
	for i := 0; remaining > 0; i++ {
		take := remaining
		if take > PointersPerIndirectBlock {
			take = PointersPerIndirectBlock
		}
		if err := s.freeSingleIndirect(singlePtrs[i], take); err != nil {
			return err
		}
		remaining -= take
	}
	return s.releaseBlock(addr)
}
