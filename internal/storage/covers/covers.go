package covers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrInvalidImage    = errors.New("invalid image data")
	ErrFileExists      = errors.New("file already exists")
	ErrFileNotExists   = errors.New("file does not exist")
	ErrInvalidFileName = errors.New("invalid file name")
)

type ICovers interface {
	SaveCover(image []byte, filename string) error
	DeleteCover(filename string) error
}

// Covers is a local store for downloaded cover art. Filenames are generated
// by the caller; the store only guards against collisions and partial writes.
type Covers struct {
	folderPath string
	mu         sync.Mutex
}

func NewCovers(folderPath string) (*Covers, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	folderPath = filepath.Clean(folderPath) + string(filepath.Separator)

	c := &Covers{folderPath: folderPath}

	if err := c.ensureFolderExists(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Covers) ensureFolderExists() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(c.folderPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (c *Covers) SaveCover(image []byte, filename string) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}

	if filename == "" {
		return ErrInvalidFileName
	}

	fullPath := filepath.Join(c.folderPath, filename)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(fullPath); err == nil {
		return ErrFileExists
	}

	tempPath := fullPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(image); err != nil {
		file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, fullPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (c *Covers) DeleteCover(filename string) error {
	if filename == "" {
		return ErrInvalidFileName
	}

	fullPath := filepath.Join(c.folderPath, filename)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return ErrFileNotExists
	}

	return os.Remove(fullPath)
}
