package apiclient

import (
	"fmt"

	"github.com/peterbourgon/diskv/v3"
)

// cacheSizeMaxBytes bounds the in-memory read cache; a session is two short strings.
const cacheSizeMaxBytes = 4096

var _ TokenStore = (*DiskStore)(nil)

// DiskStore persists tokens as individual files under a base directory.
type DiskStore struct {
	dv *diskv.Diskv
}

// NewDiskStore creates a DiskStore rooted at dir. Files are readable by the owner only.
func NewDiskStore(dir string) *DiskStore {
	// All keys live directly in the base dir.
	flatTransform := func(s string) []string { return []string{} }

	dv := diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    flatTransform,
		CacheSizeMax: cacheSizeMaxBytes,
		PathPerm:     0o700,
		FilePerm:     0o600,
	})

	return &DiskStore{dv: dv}
}

func (s *DiskStore) Get(key string) (string, error) {
	if !s.dv.Has(key) {
		return "", ErrTokenNotFound
	}

	data, err := s.dv.Read(key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

func (s *DiskStore) Set(key, value string) error {
	if err := s.dv.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Delete(key string) error {
	if !s.dv.Has(key) {
		return nil
	}
	if err := s.dv.Erase(key); err != nil {
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}
