package files

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apierrors "salarypulse/internal/errors"
)

// Kinds of artifact the exporters write.
const (
	KindHTML = "html"
	KindCSV  = "csv"
	KindXLSX = "xlsx"
	KindPDF  = "pdf"
)

var kinds = map[string]string{
	".html": KindHTML,
	".csv":  KindCSV,
	".xlsx": KindXLSX,
	".pdf":  KindPDF,
}

// FileInfo describes one exported artifact. Path is slash separated and
// relative to the reports directory.
type FileInfo struct {
	Path    string    `json:"path"`
	Kind    string    `json:"kind"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Discovery finds report artifacts under one base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// List walks the base directory and returns every artifact of a known kind,
// newest first. A missing base directory yields an empty list.
func (d *Discovery) List() ([]FileInfo, error) {
	var found []FileInfo
	err := filepath.WalkDir(d.basePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		kind, ok := kinds[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			// Removed while walking.
			return nil
		}
		rel, err := filepath.Rel(d.basePath, path)
		if err != nil {
			return err
		}
		found = append(found, FileInfo{
			Path:    filepath.ToSlash(rel),
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, apierrors.NewExportError("failed to list reports", err)
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].ModTime.Equal(found[j].ModTime) {
			return found[i].ModTime.After(found[j].ModTime)
		}
		return found[i].Path < found[j].Path
	})
	return found, nil
}

// FilterByKind keeps the files of the given kind.
func FilterByKind(files []FileInfo, kind string) []FileInfo {
	var out []FileInfo
	for _, f := range files {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Resolve maps a relative artifact path to a file under the base
// directory. Paths that leave the base directory, name a directory or an
// unknown kind resolve to a not-found error.
func (d *Discovery) Resolve(rel string) (string, error) {
	notFound := apierrors.NotFoundError("report file " + rel)

	if rel == "" || !fs.ValidPath(rel) {
		return "", notFound
	}
	if _, ok := kinds[strings.ToLower(filepath.Ext(rel))]; !ok {
		return "", notFound
	}

	full := filepath.Join(d.basePath, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", notFound
	}
	return full, nil
}
