// Package screenshots manages the two on-disk screenshot queues feeding the
// processing pipeline: the main queue (initial problem captures) and the
// extra queue (debug captures taken after a solution was shown).
package screenshots

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snapsolver/pkg/logx"
)

// Screenshot is one capture read from disk for a single processing cycle.
// Data is the base64-encoded file content; Preview is a data URL suitable
// for direct rendering. Screenshots are never persisted by this package.
type Screenshot struct {
	Path    string
	Preview string
	Data    string
}

// Store lists the screenshot queues and manages the extra queue lifecycle.
type Store interface {
	ListMainQueue() ([]string, error)
	ListExtraQueue() ([]string, error)
	GetPreview(path string) (string, error)
	ClearExtraQueue() error
}

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// MediaTypeFor returns the MIME type for a screenshot path, defaulting to
// PNG for unrecognized extensions.
func MediaTypeFor(path string) string {
	if mt, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "image/png"
}

// DirStore is a Store backed by two directories. Queue order is the sorted
// file name order, which matches capture order for timestamp-named files.
type DirStore struct {
	mainDir  string
	extraDir string
	logger   *logx.Logger
}

// NewDirStore creates a DirStore over the given queue directories. The
// directories are created on first write, not here; listing a missing
// directory yields an empty queue.
func NewDirStore(mainDir, extraDir string) *DirStore {
	return &DirStore{
		mainDir:  mainDir,
		extraDir: extraDir,
		logger:   logx.NewLogger("screenshots"),
	}
}

func (s *DirStore) ListMainQueue() ([]string, error) {
	return listImages(s.mainDir)
}

func (s *DirStore) ListExtraQueue() ([]string, error) {
	return listImages(s.extraDir)
}

// GetPreview reads the file and returns it as a data URL.
func (s *DirStore) GetPreview(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot %s: %w", path, err)
	}
	return fmt.Sprintf("data:%s;base64,%s", MediaTypeFor(path), base64.StdEncoding.EncodeToString(raw)), nil
}

// ClearExtraQueue deletes every image file in the extra queue. Files that
// fail to delete are logged and skipped; the first error is returned after
// the full pass.
func (s *DirStore) ClearExtraQueue() error {
	paths, err := listImages(s.extraDir)
	if err != nil {
		return err
	}

	var firstErr error
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Error("Failed to remove extra screenshot %s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list screenshot directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
