package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"tinygo.org/x/tinyfs"
)

// NVRAMCellSize is the size of the high score cell in bytes.
const NVRAMCellSize = 4

// erasedByte is the value flash reads after an erase.
const erasedByte = 0xFF

// ErrCellOutOfRange is returned when the cell does not fit the device.
var ErrCellOutOfRange = errors.New("storage: nvram cell outside device")

// NVRAM stores the high score as a 4-byte little-endian cell at a fixed
// offset of a flash block device. A cell whose first byte reads 0xFF has
// never been written and holds 0.
type NVRAM struct {
	dev    tinyfs.BlockDevice
	offset int64
	writes int
}

// NewNVRAM places the cell at offset on dev. The cell must not straddle two
// erase blocks.
func NewNVRAM(dev tinyfs.BlockDevice, offset int64) (*NVRAM, error) {
	if offset < 0 || offset+NVRAMCellSize > dev.Size() {
		return nil, fmt.Errorf("%w: offset %d, size %d", ErrCellOutOfRange, offset, dev.Size())
	}
	bs := dev.EraseBlockSize()
	if bs > 0 && offset/bs != (offset+NVRAMCellSize-1)/bs {
		return nil, fmt.Errorf("%w: offset %d crosses an erase block", ErrCellOutOfRange, offset)
	}
	return &NVRAM{dev: dev, offset: offset}, nil
}

// LoadHighScore reads the cell.
func (n *NVRAM) LoadHighScore() (uint32, error) {
	var buf [NVRAMCellSize]byte
	if _, err := n.dev.ReadAt(buf[:], n.offset); err != nil {
		return 0, fmt.Errorf("storage: read nvram: %w", err)
	}
	if buf[0] == erasedByte {
		return 0, nil
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// SaveHighScore rewrites the cell. Flash can only be programmed after an
// erase, so the whole enclosing erase block is read, erased and written back.
func (n *NVRAM) SaveHighScore(score uint32) error {
	bs := n.dev.EraseBlockSize()
	if bs <= 0 {
		bs = NVRAMCellSize
	}
	block := n.offset / bs
	start := block * bs

	buf := make([]byte, bs)
	if _, err := n.dev.ReadAt(buf, start); err != nil {
		return fmt.Errorf("storage: read nvram block: %w", err)
	}
	binary.LittleEndian.PutUint32(buf[n.offset-start:], score)

	if err := n.dev.EraseBlocks(block, 1); err != nil {
		return fmt.Errorf("storage: erase nvram block: %w", err)
	}
	if _, err := n.dev.WriteAt(buf, start); err != nil {
		return fmt.Errorf("storage: write nvram: %w", err)
	}
	n.writes++
	return nil
}

// Erase resets the cell to the erased state.
func (n *NVRAM) Erase() error {
	bs := n.dev.EraseBlockSize()
	if bs <= 0 {
		bs = NVRAMCellSize
	}
	block := n.offset / bs
	start := block * bs

	buf := make([]byte, bs)
	if _, err := n.dev.ReadAt(buf, start); err != nil {
		return fmt.Errorf("storage: read nvram block: %w", err)
	}
	for i := int64(0); i < NVRAMCellSize; i++ {
		buf[n.offset-start+i] = erasedByte
	}
	if err := n.dev.EraseBlocks(block, 1); err != nil {
		return fmt.Errorf("storage: erase nvram block: %w", err)
	}
	if _, err := n.dev.WriteAt(buf, start); err != nil {
		return fmt.Errorf("storage: write nvram: %w", err)
	}
	n.writes++
	return nil
}

// Writes returns the number of program cycles issued to the device.
func (n *NVRAM) Writes() int {
	return n.writes
}

// Device returns the underlying block device.
func (n *NVRAM) Device() tinyfs.BlockDevice {
	return n.dev
}
