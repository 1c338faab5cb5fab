package reexport

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file extensions recognized as manifests.
var DefaultExtensions = []string{".yaml", ".yml", ".json"}

// Source lists and opens declaration manifests.
type Source interface {
	// ListFiles returns every manifest path known to this source, sorted.
	ListFiles() ([]string, error)

	// Open returns the content of a path returned by ListFiles.
	Open(path string) (io.ReadCloser, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
	include    []string
	exclude    []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{extensions: DefaultExtensions}
}

// WithExtensions sets the file extensions recognized as manifests.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) { c.extensions = exts }
}

// WithInclude limits a source to paths matching at least one doublestar
// pattern (e.g. "**/*.reexport.yaml"). Patterns are matched against paths
// relative to the source root using forward slashes.
func WithInclude(patterns ...string) SourceOption {
	return func(c *sourceConfig) { c.include = append(c.include, patterns...) }
}

// WithExclude drops paths matching any doublestar pattern.
func WithExclude(patterns ...string) SourceOption {
	return func(c *sourceConfig) { c.exclude = append(c.exclude, patterns...) }
}

func (c *sourceConfig) accepts(rel string) bool {
	if !hasExtension(rel, c.extensions) {
		return false
	}
	match := func(pattern string) bool {
		ok, err := doublestar.Match(pattern, rel)
		return err == nil && ok
	}
	if len(c.include) > 0 && !slices.ContainsFunc(c.include, match) {
		return false
	}
	return !slices.ContainsFunc(c.exclude, match)
}

// --- FS Source (directories, embed.FS, testing) ---

type fsSource struct {
	name      string // display prefix for paths
	fsys      fs.FS
	recursive bool
	config    sourceConfig
}

// Dir creates a Source over a single directory (no recursion).
// Only files with one of DefaultExtensions are listed unless WithExtensions
// says otherwise.
func Dir(dir string, opts ...SourceOption) (Source, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	return newFSSource(dir, os.DirFS(dir), false, opts), nil
}

// MustDir is like Dir but panics on error.
func MustDir(dir string, opts ...SourceOption) Source {
	src, err := Dir(dir, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

// DirTree creates a Source over a directory tree.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	return newFSSource(root, os.DirFS(root), true, opts), nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

// FS creates a recursive Source backed by an fs.FS (e.g., embed.FS).
// The name prefixes reported paths.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	return newFSSource(name, fsys, true, opts)
}

func newFSSource(name string, fsys fs.FS, recursive bool, opts []SourceOption) *fsSource {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{name: name, fsys: fsys, recursive: recursive, config: cfg}
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: dir, Err: os.ErrInvalid}
	}
	return nil
}

func (s *fsSource) ListFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != "." && !s.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if s.config.accepts(p) {
			files = append(files, s.display(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func (s *fsSource) Open(p string) (io.ReadCloser, error) {
	rel, ok := s.relative(p)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return s.fsys.Open(rel)
}

func (s *fsSource) display(rel string) string {
	return filepath.Join(s.name, filepath.FromSlash(rel))
}

func (s *fsSource) relative(p string) (string, bool) {
	rel, err := filepath.Rel(s.name, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return rel, fs.ValidPath(rel)
}

// --- Files Source (explicit paths and globs) ---

type filesSource struct {
	files []string
}

// Files creates a Source from explicit paths and doublestar globs such as
// "manifests/**/*.yaml". A glob that matches nothing is an error. Paths are
// used as given, whatever their extension.
func Files(patterns ...string) (Source, error) {
	var files []string
	for _, pattern := range patterns {
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, &fs.PathError{Op: "glob", Path: pattern, Err: fs.ErrNotExist}
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return &filesSource{files: slices.Compact(files)}, nil
}

func (s *filesSource) ListFiles() ([]string, error) {
	return slices.Clone(s.files), nil
}

func (s *filesSource) Open(p string) (io.ReadCloser, error) {
	return os.Open(p)
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one. Files are listed in source
// order.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) ListFiles() ([]string, error) {
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		files = append(files, f...)
	}
	return files, nil
}

func (s *multiSource) Open(p string) (io.ReadCloser, error) {
	for _, src := range s.sources {
		r, err := src.Open(p)
		if err == nil {
			return r, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
}

// --- Helpers ---

func hasExtension(p string, exts []string) bool {
	ext := strings.ToLower(path.Ext(p))
	return slices.Contains(exts, ext)
}
