package llfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Verify walks the whole volume and reports every invariant violation from
// spec.md §8 it can detect. It never repairs anything; it's a read-only
// diagnostic, grounded on the teacher's pattern of aggregating independent
// validation failures with hashicorp/go-multierror rather than stopping at
// the first one.
func (s *Store) Verify() error {
	var result *multierror.Error

	if s.sb.Magic != Magic {
		result = multierror.Append(result, fmt.Errorf(
			"superblock magic is %#x, want %#x", s.sb.Magic, Magic))
	}

	for b := BlockID(0); b < reservedBlocks; b++ {
		if s.FBV.IsFree(b) {
			result = multierror.Append(result, fmt.Errorf(
				"reserved block %d is marked free", b))
		}
	}

	reachable := make(map[BlockID]bool)
	reachable[SuperblockAddr] = true
	reachable[FreeBlockVectorAddr] = true
	reachable[InodeMapAddr] = true

	for id := 0; id < MaxInodes; id++ {
		addr := s.Inodes.Address(InodeID(id))
		if addr == 0 {
			continue
		}
		reachable[addr] = true

		if s.FBV.IsFree(addr) {
			result = multierror.Append(result, fmt.Errorf(
				"inode %d's block %d is marked free in the FBV", id, addr))
		}

		inode, err := s.readInode(InodeID(id))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", id, err))
			continue
		}

		result = multierror.Append(result, s.verifyInodeBlocks(inode, reachable)...)

		if inode.Type == FileTypeDirectory {
			result = multierror.Append(result, s.verifyDirectory(inode)...)
		}
	}

	rootInode, err := s.readInode(RootInodeID)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("root inode: %w", err))
	} else if rootInode.Type != FileTypeDirectory {
		result = multierror.Append(result, fmt.Errorf(
			"inode 0 has type %q, want directory", rune(rootInode.Type)))
	}

	for b := BlockID(reservedBlocks); uint(b) < TotalBlocks; b++ {
		if !s.FBV.IsFree(b) && !reachable[b] {
			result = multierror.Append(result, fmt.Errorf(
				"block %d is marked used but is unreachable from any inode", b))
		}
	}

	return result.ErrorOrNil()
}

// verifyInodeBlocks checks that every block an inode claims is marked used
// in the FBV, and marks them reachable for the orphan-block sweep in Verify.
func (s *Store) verifyInodeBlocks(inode Inode, reachable map[BlockID]bool) []error {
	var errs []error
	total := int(inode.BlockCount())

	directCount := total
	if directCount > NumDirectPointers {
		directCount = NumDirectPointers
	}
	for i := 0; i < directCount; i++ {
		addr := inode.Direct[i]
		reachable[addr] = true
		if s.FBV.IsFree(addr) {
			errs = append(errs, fmt.Errorf(
				"inode %d's direct block %d is marked free", inode.ID, addr))
		}
	}
	remaining := total - directCount
	if remaining == 0 {
		return errs
	}

	reachable[inode.SingleIndirect] = true
	singleCount := remaining
	if singleCount > PointersPerIndirectBlock {
		singleCount = PointersPerIndirectBlock
	}
	raw, err := s.Device.ReadBlock(inode.SingleIndirect)
	if err != nil {
		return append(errs, fmt.Errorf("inode %d: %w", inode.ID, err))
	}
	ptrs := decodeIndirectBlock(raw)
	for i := 0; i < singleCount; i++ {
		reachable[ptrs[i]] = true
		if s.FBV.IsFree(ptrs[i]) {
			errs = append(errs, fmt.Errorf(
				"inode %d's single-indirect block %d entry %d is marked free",
				inode.ID, inode.SingleIndirect, i))
		}
	}
	remaining -= singleCount
	if remaining == 0 {
		return errs
	}

	reachable[inode.DoubleIndirect] = true
	doubleRaw, err := s.Device.ReadBlock(inode.DoubleIndirect)
	if err != nil {
		return append(errs, fmt.Errorf("inode %d: %w", inode.ID, err))
	}
	singlePtrs := decodeIndirectBlock(doubleRaw)

	for i := 0; remaining > 0; i++ {
		take := remaining
		if take > PointersPerIndirectBlock {
			take = PointersPerIndirectBlock
		}
		reachable[singlePtrs[i]] = true
		innerRaw, err := s.Device.ReadBlock(singlePtrs[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("inode %d: %w", inode.ID, err))
			break
		}
		innerPtrs := decodeIndirectBlock(innerRaw)
		for j := 0; j < take; j++ {
			reachable[innerPtrs[j]] = true
			if s.FBV.IsFree(innerPtrs[j]) {
				errs = append(errs, fmt.Errorf(
					"inode %d's double-indirect chain block %d entry %d is marked free",
					inode.ID, singlePtrs[i], j))
			}
		}
		remaining -= take
	}
	return errs
}

// verifyDirectory checks that every entry in a directory block names an
// inode-id with a live inode-map assignment, and that "." and ".." resolve
// to the expected ids.
func (s *Store) verifyDirectory(inode Inode) []error {
	var errs []error
	block, err := s.Device.ReadBlock(inode.Direct[0])
	if err != nil {
		return []error{fmt.Errorf("directory %d: %w", inode.ID, err)}
	}

	dot, _ := decodeDirEntry(dirSlot(block, dotSlot))
	if dot != inode.ID {
		errs = append(errs, fmt.Errorf(
			"directory %d's \".\" entry points at %d", inode.ID, dot))
	}
	if up, _ := decodeDirEntry(dirSlot(block, dotdotSlot)); inode.ID == RootInodeID && up != RootInodeID {
		errs = append(errs, fmt.Errorf("root directory's \"..\" entry points at %d", up))
	}

	for _, entry := range listDirEntries(block) {
		if s.Inodes.Address(entry.ID) == 0 {
			errs = append(errs, fmt.Errorf(
				"directory %d's entry %q names unallocated inode %d",
				inode.ID, entry.Name, entry.ID))
			continue
		}
		child, err := s.readInode(entry.ID)
		if err != nil || child.Type != FileTypeDirectory {
			continue
		}
		childBlock, err := s.Device.ReadBlock(child.Direct[0])
		if err != nil {
			continue
		}
		if up, _ := decodeDirEntry(dirSlot(childBlock, dotdotSlot)); up != inode.ID {
			errs = append(errs, fmt.Errorf(
				"directory %d's \"..\" entry points at %d, want %d", entry.ID, up, inode.ID))
		}
	}
	return errs
}
