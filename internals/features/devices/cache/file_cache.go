package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const DefaultFileName = ".dochadzka_device"

// FileCache keeps the authorization in a plain text file (code|YYYY-MM-DD).
type FileCache struct {
	Path string
}

// DefaultFilePath returns ~/.dochadzka_device.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

func (f *FileCache) Get() (Authorization, bool, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Authorization{}, false, nil
		}
		return Authorization{}, false, err
	}
	a, err := Decode(string(b))
	if err != nil {
		return Authorization{}, false, err
	}
	return a, true, nil
}

func (f *FileCache) Set(a Authorization) error {
	if a.Code == "" {
		return ErrMalformed
	}
	if dir := filepath.Dir(f.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(f.Path, []byte(a.Encode()+"\n"), 0o600)
}

func (f *FileCache) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
