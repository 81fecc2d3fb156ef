package llfs

import (
	"github.com/gocarina/gocsv"
)

// InodeReportRow is one row of the CSV table InodeReportCSV produces: one
// live inode, its geometry, and (when resolvable) the path it's reachable
// from the root directory by.
type InodeReportRow struct {
	InodeID    uint8  `csv:"inode_id"`
	Type       string `csv:"type"`
	SizeBytes  uint32 `csv:"size_bytes"`
	BlockCount uint32 `csv:"block_count"`
	Path       string `csv:"path"`
}

// InodeReportCSV walks every allocated inode and serializes a diagnostic
// table of them to CSV, in the shape of the teacher's DiskGeometry export
// (disks/disks.go).
func (s *Store) InodeReportCSV() (string, error) {
	var rows []InodeReportRow

	paths := s.pathsByInode()

	for id := 0; id < MaxInodes; id++ {
		if s.Inodes.Address(InodeID(id)) == 0 {
			continue
		}
		inode, err := s.readInode(InodeID(id))
		if err != nil {
			continue
		}
		rows = append(rows, InodeReportRow{
			InodeID:    uint8(inode.ID),
			Type:       string(rune(inode.Type)),
			SizeBytes:  inode.Size,
			BlockCount: inode.BlockCount(),
			Path:       paths[inode.ID],
		})
	}

	return gocsv.MarshalString(&rows)
}

// pathsByInode does a breadth-first walk of the directory tree from the
// root, recording the first absolute path found to each inode-id. Inodes
// unreachable from the root (e.g. left over after a corrupted unlink) are
// simply absent from the result.
func (s *Store) pathsByInode() map[InodeID]string {
	paths := map[InodeID]string{RootInodeID: "/"}
	queue := []InodeID{RootInodeID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		inode, err := s.readInode(id)
		if err != nil || inode.Type != FileTypeDirectory {
			continue
		}
		block, err := s.Device.ReadBlock(inode.Direct[0])
		if err != nil {
			continue
		}
		parentPath := paths[id]
		for _, entry := range listDirEntries(block) {
			if _, seen := paths[entry.ID]; seen {
				continue
			}
			childPath := parentPath + entry.Name
			if childInode, err := s.readInode(entry.ID); err == nil && childInode.Type == FileTypeDirectory {
				childPath += "/"
			}
			paths[entry.ID] = childPath
			queue = append(queue, entry.ID)
		}
	}
	return paths
}
