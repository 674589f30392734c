package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"tinygo.org/x/tinyfs"
)

func newTestNVRAM(t *testing.T, offset int64) (*NVRAM, *tinyfs.MemBlockDevice) {
	t.Helper()
	// 256 byte pages, 4096 byte erase blocks, 2 blocks
	dev := tinyfs.NewMemoryDevice(256, 4096, 2)
	if err := dev.EraseBlocks(0, 2); err != nil {
		t.Fatalf("EraseBlocks() failed: %v", err)
	}
	nv, err := NewNVRAM(dev, offset)
	if err != nil {
		t.Fatalf("NewNVRAM() failed: %v", err)
	}
	return nv, dev
}

func TestNVRAMErasedReadsZero(t *testing.T) {
	nv, _ := newTestNVRAM(t, 0)
	score, err := nv.LoadHighScore()
	if err != nil {
		t.Fatalf("LoadHighScore() failed: %v", err)
	}
	if score != 0 {
		t.Errorf("LoadHighScore() on erased cell = %d, expected 0", score)
	}
}

func TestNVRAMFirstByteErased(t *testing.T) {
	nv, dev := newTestNVRAM(t, 16)
	if err := dev.EraseBlocks(0, 1); err != nil {
		t.Fatalf("EraseBlocks() failed: %v", err)
	}
	// Only the first byte is erased; the cell still counts as unwritten.
	if _, err := dev.WriteAt([]byte{0xFF, 0x01, 0x02, 0x03}, 16); err != nil {
		t.Fatalf("WriteAt() failed: %v", err)
	}
	if score, _ := nv.LoadHighScore(); score != 0 {
		t.Errorf("LoadHighScore() = %d, expected 0", score)
	}
}

func TestNVRAMSaveLoad(t *testing.T) {
	nv, dev := newTestNVRAM(t, 8)

	if err := nv.SaveHighScore(1000); err != nil {
		t.Fatalf("SaveHighScore() failed: %v", err)
	}

	raw := make([]byte, 4)
	if _, err := dev.ReadAt(raw, 8); err != nil {
		t.Fatalf("ReadAt() failed: %v", err)
	}
	if raw[0] != 0xE8 || raw[1] != 0x03 || raw[2] != 0x00 || raw[3] != 0x00 {
		t.Errorf("cell bytes = % x, expected e8 03 00 00", raw)
	}

	score, err := nv.LoadHighScore()
	if err != nil {
		t.Fatalf("LoadHighScore() failed: %v", err)
	}
	if score != 1000 {
		t.Errorf("LoadHighScore() = %d, expected 1000", score)
	}

	// Lower values overwrite: the caller decides when to write.
	if err := nv.SaveHighScore(3); err != nil {
		t.Fatalf("SaveHighScore() failed: %v", err)
	}
	if score, _ := nv.LoadHighScore(); score != 3 {
		t.Errorf("LoadHighScore() = %d, expected 3", score)
	}
	if nv.Writes() != 2 {
		t.Errorf("Writes() = %d, expected 2", nv.Writes())
	}
}

func TestNVRAMPreservesNeighbours(t *testing.T) {
	nv, dev := newTestNVRAM(t, 100)
	if _, err := dev.WriteAt([]byte{0x11, 0x22}, 98); err != nil {
		t.Fatalf("WriteAt() failed: %v", err)
	}

	if err := nv.SaveHighScore(7); err != nil {
		t.Fatalf("SaveHighScore() failed: %v", err)
	}
	raw := make([]byte, 2)
	dev.ReadAt(raw, 98)
	if raw[0] != 0x11 || raw[1] != 0x22 {
		t.Errorf("neighbour bytes = % x, expected 11 22", raw)
	}
}

func TestNVRAMErase(t *testing.T) {
	nv, _ := newTestNVRAM(t, 0)
	nv.SaveHighScore(55)
	if err := nv.Erase(); err != nil {
		t.Fatalf("Erase() failed: %v", err)
	}
	if score, _ := nv.LoadHighScore(); score != 0 {
		t.Errorf("LoadHighScore() after Erase() = %d, expected 0", score)
	}
}

func TestNewNVRAMOutOfRange(t *testing.T) {
	dev := tinyfs.NewMemoryDevice(256, 4096, 2)
	tests := []struct {
		name   string
		offset int64
	}{
		{"negative", -1},
		{"past end", 8190},
		{"crosses block", 4094},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewNVRAM(dev, tt.offset); !errors.Is(err, ErrCellOutOfRange) {
				t.Errorf("NewNVRAM(%d) error = %v, expected ErrCellOutOfRange", tt.offset, err)
			}
		})
	}
}

func TestFlashImagePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nvram", "copter.img")

	nv, img, err := OpenNVRAMImage(path)
	if err != nil {
		t.Fatalf("OpenNVRAMImage() failed: %v", err)
	}
	if score, _ := nv.LoadHighScore(); score != 0 {
		t.Errorf("new image LoadHighScore() = %d, expected 0", score)
	}
	if err := nv.SaveHighScore(4242); err != nil {
		t.Fatalf("SaveHighScore() failed: %v", err)
	}
	if err := img.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	nv, img, err = OpenNVRAMImage(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer img.Close()
	if score, _ := nv.LoadHighScore(); score != 4242 {
		t.Errorf("LoadHighScore() after reopen = %d, expected 4242", score)
	}
}

func TestFlashImageProgramsLikeNOR(t *testing.T) {
	img, err := OpenFlashImage(filepath.Join(t.TempDir(), "f.img"), 16, 64, 2)
	if err != nil {
		t.Fatalf("OpenFlashImage() failed: %v", err)
	}
	defer img.Close()

	if img.Size() != 128 || img.EraseBlockSize() != 64 || img.WriteBlockSize() != 16 {
		t.Errorf("geometry = %d/%d/%d, expected 128/64/16", img.Size(), img.EraseBlockSize(), img.WriteBlockSize())
	}

	img.WriteAt([]byte{0x0F}, 70)
	img.WriteAt([]byte{0xF1}, 70)
	b := make([]byte, 1)
	img.ReadAt(b, 70)
	if b[0] != 0x01 {
		t.Errorf("byte after two programs = %#x, expected 0x01", b[0])
	}

	if err := img.EraseBlocks(1, 1); err != nil {
		t.Fatalf("EraseBlocks() failed: %v", err)
	}
	img.ReadAt(b, 70)
	if b[0] != 0xFF {
		t.Errorf("byte after erase = %#x, expected 0xff", b[0])
	}

	if _, err := img.ReadAt(make([]byte, 4), 126); err == nil {
		t.Error("ReadAt() past end should fail")
	}
}
