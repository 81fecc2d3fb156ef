package llfs

import (
	"github.com/sofiabesenski4/filesystem/errors"
)

// chunkData splits data into BytesPerBlock-sized pieces. The final piece may
// be shorter than BytesPerBlock; callers write it with WriteBlock, which
// leaves the remainder of that block untouched (spec.md 4.A).
func chunkData(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	var chunks [][]byte
	for off := 0; off < len(data); off += BytesPerBlock {
		end := off + BytesPerBlock
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}
	return chunks
}

// writeChunks allocates and writes one data block per chunk directly
// (no indirection), recording their addresses into dst. len(chunks) must be
// at most len(dst).
func (s *Store) writeChunks(dst []BlockID, chunks [][]byte) error {
	for i, chunk := range chunks {
		addr, err := s.FBV.Allocate()
		if err != nil {
			return err
		}
		if err := s.Device.WriteBlock(addr, chunk); err != nil {
			return err
		}
		dst[i] = addr
	}
	return nil
}

// allocateData assigns chunks to direct pointers first, then the
// single-indirect block, then the double-indirect block, exactly following
// the fill order of spec.md 4.F / the original's create_file_in_directory.
func (s *Store) allocateData(inode *Inode, chunks [][]byte) error {
	if len(chunks) > MaxDataBlocks {
		return errors.ErrNoSpace.WithMessage("file exceeds maximum addressable size")
	}

	direct := chunks
	if len(direct) > NumDirectPointers {
		direct = direct[:NumDirectPointers]
	}
	if err := s.writeChunks(inode.Direct[:len(direct)], direct); err != nil {
		return err
	}
	remaining := chunks[len(direct):]
	if len(remaining) == 0 {
		return nil
	}

	single := remaining
	if len(single) > PointersPerIndirectBlock {
		single = single[:PointersPerIndirectBlock]
	}
	singleAddr, err := s.writeSingleIndirect(single)
	if err != nil {
		return err
	}
	inode.SingleIndirect = singleAddr
	remaining = remaining[len(single):]
	if len(remaining) == 0 {
		return nil
	}

	doubleAddr, err := s.writeDoubleIndirect(remaining)
	if err != nil {
		return err
	}
	inode.DoubleIndirect = doubleAddr
	return nil
}

// freeData releases every data block, and every indirect block, an inode
// addresses, according to its recorded size (spec.md 4.F's
// clear_single_indirection_block, generalized to the double-indirect tier).
func (s *Store) freeData(inode Inode) error {
	total := int(inode.BlockCount())

	directCount := total
	if directCount > NumDirectPointers {
		directCount = NumDirectPointers
	}
	for i := 0; i < directCount; i++ {
		if err := s.releaseBlock(inode.Direct[i]); err != nil {
			return err
		}
	}
	remaining := total - directCount
	if remaining == 0 {
		return nil
	}

	singleCount := remaining
	if singleCount > PointersPerIndirectBlock {
		singleCount = PointersPerIndirectBlock
	}
	if err := s.freeSingleIndirect(inode.SingleIndirect, singleCount); err != nil {
		return err
	}
	remaining -= singleCount
	if remaining == 0 {
		return nil
	}

	return s.freeDoubleIndirect(inode.DoubleIndirect, remaining)
}

// createDirectory allocates a fresh directory inode parented under `parent`
// (which may equal the new inode's own id, for the root directory) and
// writes its single-block "."/".." content. It does not link the new
// directory into its parent's entry list; callers that aren't creating the
// root directory must do that themselves.
func (s *Store) createDirectory(parent InodeID) (Inode, error) {
	inode, err := s.allocateInode(FileTypeDirectory)
	if err != nil {
		return Inode{}, err
	}

	dataAddr, err := s.FBV.Allocate()
	if err != nil {
		return Inode{}, err
	}
	block := newDirectoryBlock(inode.ID, parent)
	if err := s.Device.WriteFullBlock(dataAddr, block); err != nil {
		return Inode{}, err
	}

	inode.Direct[0] = dataAddr
	inode.Size = BytesPerBlock
	if err := s.writeInode(inode); err != nil {
		return Inode{}, err
	}
	return inode, nil
}

// CreateDirectory creates a new, empty directory at the given absolute path
// (spec.md 4.I's create_directory).
func (s *Store) CreateDirectory(path string) error {
	parentID, parentInode, err := s.resolveDirectory(ParentPath(path))
	if err != nil {
		return err
	}

	dir, err := s.createDirectory(parentID)
	if err != nil {
		return err
	}

	parentBlock, err := s.Device.ReadBlock(parentInode.Direct[0])
	if err != nil {
		return err
	}
	if err := addDirEntry(parentBlock, dir.ID, BaseName(path)); err != nil {
		return err
	}
	if err := s.Device.WriteFullBlock(parentInode.Direct[0], [BytesPerBlock]byte(parentBlock)); err != nil {
		return err
	}

	return s.flushMetadata()
}

// UploadFile creates a new flat file at the given absolute path with the
// given contents (spec.md 4.I's upload_file / create_file_in_directory).
func (s *Store) UploadFile(path string, data []byte) error {
	_, parentInode, err := s.resolveDirectory(ParentPath(path))
	if err != nil {
		return err
	}

	inode, err := s.allocateInode(FileTypeFlat)
	if err != nil {
		return err
	}
	inode.Size = uint32(len(data))
	if err := s.allocateData(&inode, chunkData(data)); err != nil {
		return err
	}
	if err := s.writeInode(inode); err != nil {
		return err
	}

	parentBlock, err := s.Device.ReadBlock(parentInode.Direct[0])
	if err != nil {
		return err
	}
	if err := addDirEntry(parentBlock, inode.ID, BaseName(path)); err != nil {
		return err
	}
	if err := s.Device.WriteFullBlock(parentInode.Direct[0], [BytesPerBlock]byte(parentBlock)); err != nil {
		return err
	}

	return s.flushMetadata()
}

// DownloadFile reads back the full contents of the flat file at path
// (spec.md 4.I's download_file / download_file_from_inode_id).
func (s *Store) DownloadFile(path string) ([]byte, error) {
	id, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}
	inode, err := s.readInode(id)
	if err != nil {
		return nil, err
	}
	if inode.Type != FileTypeFlat {
		return nil, errors.ErrNotFound.WithMessage(path + " is not a file")
	}

	total := int(inode.BlockCount())
	data := make([]byte, 0, inode.Size)

	directCount := total
	if directCount > NumDirectPointers {
		directCount = NumDirectPointers
	}
	for i := 0; i < directCount; i++ {
		chunk, err := s.Device.ReadBlock(inode.Direct[i])
		if err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}
	remaining := total - directCount

	if remaining > 0 {
		singleCount := remaining
		if singleCount > PointersPerIndirectBlock {
			singleCount = PointersPerIndirectBlock
		}
		chunks, err := s.readSingleIndirect(inode.SingleIndirect, singleCount)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			data = append(data, c...)
		}
		remaining -= singleCount
	}

	if remaining > 0 {
		chunks, err := s.readDoubleIndirect(inode.DoubleIndirect, remaining)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			data = append(data, c...)
		}
	}

	if len(data) > int(inode.Size) {
		data = data[:inode.Size]
	}
	return data, nil
}

// DeleteFilepath deletes the entry at path, dispatching to DeleteFile or
// DeleteDirectory according to its inode's type tag (spec.md 4.I's
// delete_filepath).
func (s *Store) DeleteFilepath(path string) error {
	id, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	inode, err := s.readInode(id)
	if err != nil {
		return err
	}
	switch inode.Type {
	case FileTypeFlat:
		return s.DeleteFile(path)
	case FileTypeDirectory:
		return s.DeleteDirectory(path)
	default:
		return errors.ErrCorruptInode.WithMessage(path)
	}
}

// DeleteFile removes a flat file: frees its data/indirect blocks, clears its
// inode-map entry, and unlinks it from its parent directory.
func (s *Store) DeleteFile(path string) error {
	id, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	inode, err := s.readInode(id)
	if err != nil {
		return err
	}
	if inode.Type != FileTypeFlat {
		return errors.ErrNotFound.WithMessage(path + " is not a file")
	}

	if err := s.freeData(inode); err != nil {
		return err
	}
	if err := s.freeInode(id); err != nil {
		return err
	}

	if err := s.unlinkFromParent(path, id); err != nil {
		return err
	}
	return s.flushMetadata()
}

// DeleteDirectory removes an empty directory. Returns ErrDirectoryNotEmpty
// if it still has user entries (spec.md 4.I's delete_directory).
func (s *Store) DeleteDirectory(path string) error {
	id, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	inode, err := s.readInode(id)
	if err != nil {
		return err
	}
	if inode.Type != FileTypeDirectory {
		return errors.ErrNotFound.WithMessage(path + " is not a directory")
	}

	block, err := s.Device.ReadBlock(inode.Direct[0])
	if err != nil {
		return err
	}
	if !isDirectoryEmpty(block) {
		return errors.ErrDirectoryNotEmpty.WithMessage(path)
	}

	if err := s.releaseBlock(inode.Direct[0]); err != nil {
		return err
	}
	if err := s.freeInode(id); err != nil {
		return err
	}

	if err := s.unlinkFromParent(path, id); err != nil {
		return err
	}
	return s.flushMetadata()
}

// unlinkFromParent removes the entry named by path's final component from
// its parent directory block.
func (s *Store) unlinkFromParent(path string, expected InodeID) error {
	_, parentInode, err := s.resolveDirectory(ParentPath(path))
	if err != nil {
		return err
	}
	block, err := s.Device.ReadBlock(parentInode.Direct[0])
	if err != nil {
		return err
	}
	removedID, err := removeDirEntry(block, BaseName(path))
	if err != nil {
		return err
	}
	if removedID != expected {
		return errors.ErrCorruptInode.WithMessage("directory entry pointed at unexpected inode")
	}
	return s.Device.WriteFullBlock(parentInode.Direct[0], [BytesPerBlock]byte(block))
}
