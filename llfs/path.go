package llfs

import (
	"strings"

	"github.com/sofiabesenski4/filesystem/errors"
)

// ParentPath returns the directory portion of an absolute path: everything
// up to and including the final slash, or "/" if the path names a top-level
// entry. spec.md §9 flags the original's strtok-based reconstruction of the
// parent path (which drops intervening separators and cannot tell "/a/b"
// from "/a//b"); SPEC_FULL.md §1 decides in favor of a plain substring split
// on the last slash instead.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx+1]
}

// BaseName returns the final path component of an absolute path.
func BaseName(path string) string {
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}

// splitPath breaks an absolute path into its non-empty components.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	components := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			components = append(components, p)
		}
	}
	return components
}

// resolvePath walks an absolute path from the root directory, following
// each component through successive directory blocks, and returns the
// inode-id it names. Returns ErrNotFound if any component is missing, or if
// an intermediate component is not itself a directory.
func (s *Store) resolvePath(path string) (InodeID, error) {
	current := RootInodeID
	for _, component := range splitPath(path) {
		inode, err := s.readInode(current)
		if err != nil {
			return 0, err
		}
		if inode.Type != FileTypeDirectory {
			return 0, errors.ErrNotFound.WithMessage(path)
		}
		block, err := s.Device.ReadBlock(inode.Direct[0])
		if err != nil {
			return 0, err
		}
		next, ok := findDirEntry(block, component)
		if !ok {
			return 0, errors.ErrNotFound.WithMessage(path)
		}
		current = next
	}
	return current, nil
}

// FindFileInodeID resolves an absolute path to its inode-id (spec.md 4.H's
// find_file_inode_id).
func (s *Store) FindFileInodeID(path string) (InodeID, error) {
	return s.resolvePath(path)
}

// InodeAt resolves path and returns its decoded inode, for callers that need
// the full record (geometry, type) rather than just the id.
func (s *Store) InodeAt(path string) (Inode, error) {
	id, err := s.resolvePath(path)
	if err != nil {
		return Inode{}, err
	}
	return s.readInode(id)
}

// resolveDirectory resolves path and confirms it names a directory,
// returning both its inode-id and decoded inode.
func (s *Store) resolveDirectory(path string) (InodeID, Inode, error) {
	id, err := s.resolvePath(path)
	if err != nil {
		return 0, Inode{}, err
	}
	inode, err := s.readInode(id)
	if err != nil {
		return 0, Inode{}, err
	}
	if inode.Type != FileTypeDirectory {
		return 0, Inode{}, errors.ErrNotFound.WithMessage(path + " is not a directory")
	}
	return id, inode, nil
}
