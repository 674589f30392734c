package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tinygo.org/x/tinyfs"
)

// Default geometry of the emulated flash image: 256-byte pages in 4 KiB
// erase blocks, the layout of common SPI NOR parts.
const (
	DefaultPageSize   = 256
	DefaultBlockSize  = 4096
	DefaultBlockCount = 1
)

// FlashImage is a tinyfs.BlockDevice backed by a file. Writes behave like
// NOR flash: they can only clear bits, and EraseBlocks sets them back to 1.
type FlashImage struct {
	f          *os.File
	pageSize   int64
	blockSize  int64
	blockCount int64
}

var _ tinyfs.BlockDevice = (*FlashImage)(nil)

// OpenFlashImage opens or creates an image file of blockCount erase blocks.
// A new image starts fully erased.
func OpenFlashImage(path string, pageSize, blockSize, blockCount int64) (*FlashImage, error) {
	if pageSize <= 0 || blockSize <= 0 || blockCount <= 0 || blockSize%pageSize != 0 {
		return nil, fmt.Errorf("storage: invalid flash geometry %d/%d/%d", pageSize, blockSize, blockCount)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: open flash image: %w", err)
	}
	img := &FlashImage{f: f, pageSize: pageSize, blockSize: blockSize, blockCount: blockCount}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: stat flash image: %w", err)
	}
	if info.Size() < img.Size() {
		// Grow with erased blocks.
		first := info.Size() / blockSize
		if err := img.EraseBlocks(first, blockCount-first); err != nil {
			f.Close()
			return nil, err
		}
	}
	return img, nil
}

// ReadAt reads from the image.
func (img *FlashImage) ReadAt(buf []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(buf)) > img.Size() {
		return 0, errors.New("storage: flash read out of range")
	}
	n, err := img.f.ReadAt(buf, off)
	if errors.Is(err, io.EOF) && n == len(buf) {
		err = nil
	}
	return n, err
}

// WriteAt programs buf at off. Bits already cleared stay cleared.
func (img *FlashImage) WriteAt(buf []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(buf)) > img.Size() {
		return 0, errors.New("storage: flash write out of range")
	}
	cur := make([]byte, len(buf))
	if _, err := img.ReadAt(cur, off); err != nil {
		return 0, err
	}
	for i := range cur {
		cur[i] &= buf[i]
	}
	return img.f.WriteAt(cur, off)
}

// Size returns the image size in bytes.
func (img *FlashImage) Size() int64 {
	return img.blockSize * img.blockCount
}

// WriteBlockSize returns the page size.
func (img *FlashImage) WriteBlockSize() int64 {
	return img.pageSize
}

// EraseBlockSize returns the erase block size.
func (img *FlashImage) EraseBlockSize() int64 {
	return img.blockSize
}

// EraseBlocks sets len blocks starting at start to 0xFF.
func (img *FlashImage) EraseBlocks(start, length int64) error {
	if start < 0 || length < 0 || start+length > img.blockCount {
		return errors.New("storage: flash erase out of range")
	}
	erased := make([]byte, img.blockSize)
	for i := range erased {
		erased[i] = erasedByte
	}
	for b := start; b < start+length; b++ {
		if _, err := img.f.WriteAt(erased, b*img.blockSize); err != nil {
			return fmt.Errorf("storage: erase flash block %d: %w", b, err)
		}
	}
	return nil
}

// Sync flushes the image to disk.
func (img *FlashImage) Sync() error {
	return img.f.Sync()
}

// Close flushes and closes the image file.
func (img *FlashImage) Close() error {
	if err := img.f.Sync(); err != nil {
		img.f.Close()
		return fmt.Errorf("storage: sync flash image: %w", err)
	}
	return img.f.Close()
}

// OpenNVRAMImage opens the high score cell at offset 0 of a flash image file
// with the default geometry.
func OpenNVRAMImage(path string) (*NVRAM, *FlashImage, error) {
	img, err := OpenFlashImage(path, DefaultPageSize, DefaultBlockSize, DefaultBlockCount)
	if err != nil {
		return nil, nil, err
	}
	nv, err := NewNVRAM(img, 0)
	if err != nil {
		img.Close()
		return nil, nil, err
	}
	return nv, img, nil
}
