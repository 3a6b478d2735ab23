package repofs

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitsleuth-be/internal/entity"
)

// Options bound what the scanner is willing to pick up from a working tree.
type Options struct {
	MaxFileSize     int
	MaxFilesPerRepo int
	AllowedExts     []string
	ExcludedDirs    []string
}

// ScanResult lists the files selected for indexing plus how many eligible
// files were dropped by the per-repo cap. Drops are deterministic: files are
// ordered by path before the cap is applied.
type ScanResult struct {
	Files        []entity.RepoFile
	DroppedFiles int
	SkippedFiles int // binary, oversized or unsupported
}

type Scanner struct {
	opts        Options
	allowedExts map[string]bool
	excluded    map[string]bool
}

func NewScanner(opts Options) *Scanner {
	allowed := make(map[string]bool, len(opts.AllowedExts))
	for _, ext := range opts.AllowedExts {
		allowed[strings.ToLower(ext)] = true
	}
	excluded := make(map[string]bool, len(opts.ExcludedDirs))
	for _, dir := range opts.ExcludedDirs {
		excluded[dir] = true
	}
	return &Scanner{opts: opts, allowedExts: allowed, excluded: excluded}
}

// Scan walks the repository root and returns the indexable files, sorted by
// path.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	result := &ScanResult{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if s.excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		ext := strings.ToLower(filepath.Ext(rel))
		if !s.allowedExts[ext] {
			result.SkippedFiles++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.SkippedFiles++
			return nil
		}
		if s.opts.MaxFileSize > 0 && info.Size() > int64(s.opts.MaxFileSize) {
			result.SkippedFiles++
			return nil
		}

		if isBinaryFile(path) {
			result.SkippedFiles++
			return nil
		}

		result.Files = append(result.Files, entity.RepoFile{
			Path:      rel,
			Size:      info.Size(),
			Extension: ext,
			Language:  languageForExtension(ext),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	if s.opts.MaxFilesPerRepo > 0 && len(result.Files) > s.opts.MaxFilesPerRepo {
		result.DroppedFiles = len(result.Files) - s.opts.MaxFilesPerRepo
		result.Files = result.Files[:s.opts.MaxFilesPerRepo]
	}

	return result, nil
}

// ReadFile returns the content of a scanned file as text.
func (s *Scanner) ReadFile(root, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isBinaryFile sniffs the first KB for null bytes, the same heuristic git
// uses. Unreadable files are treated as binary.
func isBinaryFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

var languageByExt = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "javascript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".cpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".swift": "swift",
	".md":    "markdown",
	".txt":   "text",
	".yml":   "yaml",
	".yaml":  "yaml",
	".json":  "json",
	".xml":   "xml",
	".sql":   "sql",
}

func languageForExtension(ext string) string {
	return languageByExt[ext]
}
