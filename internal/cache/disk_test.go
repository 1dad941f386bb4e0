package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskCache(t *testing.T) {
	t.Run("miss on empty cache", func(t *testing.T) {
		cache := NewDisk(t.TempDir())

		data, found, err := cache.Get("ms-1", "default", "1.2", "application/xml")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if found || data != nil {
			t.Errorf("expected miss, got found=%v data=%q", found, data)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		cache := NewDisk(t.TempDir())
		payload := []byte("<TEI><text>salve regina</text></TEI>")

		if err := cache.Put(payload, "ms-1", "default", "1.2", "application/xml"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		data, found, err := cache.Get("ms-1", "default", "1.2", "application/xml")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !found {
			t.Fatal("expected hit after Put")
		}
		if string(data) != string(payload) {
			t.Errorf("payload mismatch: got %q", data)
		}
	})

	t.Run("distinct keys do not collide", func(t *testing.T) {
		cache := NewDisk(t.TempDir())

		if err := cache.Put([]byte("xml"), "ms-1", "default", "1", "application/xml"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := cache.Put([]byte("html"), "ms-1", "default", "1", "text/html"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		data, found, err := cache.Get("ms-1", "default", "1", "text/html")
		if err != nil || !found {
			t.Fatalf("Get failed: found=%v err=%v", found, err)
		}
		if string(data) != "html" {
			t.Errorf("expected html payload, got %q", data)
		}
	})

	t.Run("overwrite replaces payload", func(t *testing.T) {
		cache := NewDisk(t.TempDir())

		if err := cache.Put([]byte("v1"), "ms-1", "default", "1"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := cache.Put([]byte("v2"), "ms-1", "default", "1"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		data, _, err := cache.Get("ms-1", "default", "1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(data) != "v2" {
			t.Errorf("expected v2, got %q", data)
		}
	})

	t.Run("fan-out layout", func(t *testing.T) {
		dir := t.TempDir()
		cache := NewDisk(dir)

		if err := cache.Put([]byte("x"), "ms-1", "default", "1"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		var entryPath string
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				entryPath = path
			}
			return err
		})
		if err != nil {
			t.Fatalf("walk failed: %v", err)
		}
		if entryPath == "" {
			t.Fatal("no cache entry written")
		}

		rel, err := filepath.Rel(dir, entryPath)
		if err != nil {
			t.Fatalf("rel failed: %v", err)
		}
		segments := strings.Split(rel, string(filepath.Separator))
		if len(segments) != 4 {
			t.Fatalf("expected 3 fan-out levels plus filename, got %v", segments)
		}
		for _, seg := range segments[:3] {
			if len(seg) != 2 {
				t.Errorf("fan-out segment '%s' is not two characters", seg)
			}
		}
		if strings.Count(segments[3], "__") != 2 {
			t.Errorf("filename '%s' does not join three key parts", segments[3])
		}
	})
}
