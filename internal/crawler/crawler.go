package crawler

import (
	"io/fs"
	"path/filepath"
	"sort"

	"proofmd/internal/extractor"
)

// FileAPIs is the extraction result for one source file.
type FileAPIs struct {
	Path string   `json:"path"`
	APIs []string `json:"apis"`
}

// Crawler scans a directory for source files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", ".lake", "node_modules", "build"},
	}
}

// ScanProject walks the root directory and extracts API names from every
// source file the extractor handles. Results are streamed through onFile.
func (c *Crawler) ScanProject(root string, onFile func(FileAPIs)) error {
	return c.walk(root, func(path string) {
		apis, err := c.extractor.ExtractFromFile(path)
		if err != nil {
			// Unreadable files are skipped instead of failing the whole scan
			return
		}
		onFile(FileAPIs{Path: path, APIs: apis})
	})
}

// ListFiles returns the handled source files under root, relative to root
// and sorted.
func (c *Crawler) ListFiles(root string) ([]string, error) {
	var files []string
	err := c.walk(root, func(path string) {
		if rel, err := filepath.Rel(root, path); err == nil {
			files = append(files, filepath.ToSlash(rel))
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (c *Crawler) walk(root string, visit func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if c.extractor.Handles(d.Name()) {
			visit(path)
		}
		return nil
	})
}
