// Package llfs implements LLFS, a miniature on-disk file system laid out
// over a single fixed-size backing store: a superblock, a free-block
// bitmap, an inode map, 33-byte inodes with direct/indirect pointer chains,
// and 16-entry directory blocks. See SPEC_FULL.md for the full layout.
package llfs

import (
	"fmt"
	"io"

	"github.com/sofiabesenski4/filesystem/errors"
)

const (
	// BytesPerBlock is the fixed size of one block on an LLFS device.
	BytesPerBlock = 512
	// TotalBlocks is the fixed number of blocks an LLFS device holds.
	TotalBlocks = 4096
	// DeviceSize is the total size, in bytes, of a formatted LLFS backing
	// store.
	DeviceSize = BytesPerBlock * TotalBlocks
)

// BlockID identifies a single 512-byte block on the device, in [0, TotalBlocks).
type BlockID uint16

// BlockDevice is a thin abstraction over a fixed-size random-access stream
// that makes it look like an array of TotalBlocks fixed-size blocks. It
// mirrors the teacher's BlockStream, adapted to LLFS's fixed geometry and to
// allow partial writes within a block (spec.md 4.A: WriteBlock writes only
// the first k bytes of a block, leaving the remainder of the block as-is).
type BlockDevice struct {
	stream io.ReadWriteSeeker
}

// NewBlockDevice wraps a stream as an LLFS block device. The stream must
// already be exactly DeviceSize bytes long; use Init to zero-fill a fresh
// one.
func NewBlockDevice(stream io.ReadWriteSeeker) *BlockDevice {
	return &BlockDevice{stream: stream}
}

func (d *BlockDevice) checkBlockID(block BlockID) error {
	if uint(block) >= TotalBlocks {
		return errors.ErrIOFailed.WithMessage(
			fmt.Sprintf("block %d not in range [0, %d)", block, TotalBlocks))
	}
	return nil
}

func (d *BlockDevice) seekToBlock(block BlockID) error {
	_, err := d.stream.Seek(int64(block)*BytesPerBlock, io.SeekStart)
	return err
}

// ReadBlock returns the full 512-byte contents of the given block.
func (d *BlockDevice) ReadBlock(block BlockID) ([]byte, error) {
	if err := d.checkBlockID(block); err != nil {
		return nil, err
	}
	if err := d.seekToBlock(block); err != nil {
		return nil, errors.ErrIOFailed.WrapError(err)
	}

	buffer := make([]byte, BytesPerBlock)
	if _, err := io.ReadFull(d.stream, buffer); err != nil {
		return nil, errors.ErrIOFailed.WrapError(err)
	}
	return buffer, nil
}

// WriteBlock writes the first len(data) bytes of block `block`, where
// len(data) must be at most BytesPerBlock. Bytes beyond len(data) within
// the block retain whatever they held before the call, matching spec.md
// 4.A's write_block(n, data, k) semantics.
func (d *BlockDevice) WriteBlock(block BlockID, data []byte) error {
	if err := d.checkBlockID(block); err != nil {
		return err
	}
	if len(data) > BytesPerBlock {
		return errors.ErrIOFailed.WithMessage(
			fmt.Sprintf("write of %d bytes exceeds block size %d", len(data), BytesPerBlock))
	}
	if err := d.seekToBlock(block); err != nil {
		return errors.ErrIOFailed.WrapError(err)
	}
	if _, err := d.stream.Write(data); err != nil {
		return errors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// WriteFullBlock is a convenience wrapper for the common case of writing an
// entire, exactly-512-byte block.
func (d *BlockDevice) WriteFullBlock(block BlockID, data [BytesPerBlock]byte) error {
	return d.WriteBlock(block, data[:])
}

// ZeroBlock overwrites a block with 512 zero bytes.
func (d *BlockDevice) ZeroBlock(block BlockID) error {
	var zero [BytesPerBlock]byte
	return d.WriteFullBlock(block, zero)
}

// Init zero-fills every block on the device, as required before a fresh
// Format.
func (d *BlockDevice) Init() error {
	var zero [BytesPerBlock]byte
	for b := BlockID(0); uint(b) < TotalBlocks; b++ {
		if err := d.WriteFullBlock(b, zero); err != nil {
			return err
		}
	}
	return nil
}
