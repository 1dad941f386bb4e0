// Package cache stores rendered passage payloads on disk so repeated
// retrievals skip the transform step.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Disk is a content-addressed file cache. Entries fan out over three levels
// of two-character subdirectories to keep directory listings small.
type Disk struct {
	root string
}

// NewDisk creates a cache rooted at dir. The directory is created lazily on
// the first write.
func NewDisk(dir string) *Disk {
	return &Disk{root: dir}
}

// entryPath derives the file location from the key parts. The fan-out
// levels come from a digest of the full key; the filename keeps a short
// digest per part so entries stay traceable to their inputs.
func (d *Disk) entryPath(parts []string) string {
	full := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	fullHex := hex.EncodeToString(full[:])

	shortHashes := make([]string, len(parts))
	for i, part := range parts {
		h := sha1.Sum([]byte(part))
		shortHashes[i] = hex.EncodeToString(h[:])[:8]
	}

	return filepath.Join(d.root, fullHex[0:2], fullHex[2:4], fullHex[4:6],
		strings.Join(shortHashes, "__"))
}

// Get returns the cached payload for the key parts, or found=false when the
// entry does not exist.
func (d *Disk) Get(parts ...string) (data []byte, found bool, err error) {
	data, err = os.ReadFile(d.entryPath(parts))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

// Put stores the payload under the key parts, creating the fan-out
// directories as needed.
func (d *Disk) Put(data []byte, parts ...string) error {
	path := d.entryPath(parts)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
