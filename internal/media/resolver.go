package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	_ "golang.org/x/image/bmp"

	"hw2go/internal/common"
)

// PackagesDir is the folder holding installation packages.
const PackagesDir = "OrganInstallationPackages"

// Resolver locates referenced files under one root.
type Resolver struct {
	root  string
	check bool
	index map[int]map[string]string
}

// RootFor returns the root of the installation tree of a definition file:
// the parent of the folder holding it.
func RootFor(documentPath string) string {
	return filepath.Dir(filepath.Dir(documentPath))
}

// New returns a resolver over root. With check false no file is touched.
func New(root string, check bool) *Resolver {
	return &Resolver{root: root, check: check, index: make(map[int]map[string]string)}
}

// Checking reports whether files are verified.
func (r *Resolver) Checking() bool {
	return r.check
}

// Path returns the root-relative, slash-separated path of a file of an
// installation package. Backslashes in name are treated as separators.
// The boolean is false when checking is on and no file matches.
func (r *Resolver) Path(pkg int, name string) (string, bool) {
	name = strings.TrimLeft(strings.ReplaceAll(name, `\`, "/"), "/")
	rel := path.Join(PackagesDir, common.Pad6(pkg), name)

	if !r.check {
		return rel, true
	}

	idx, err := r.packageIndex(pkg)
	if err != nil {
		return rel, false
	}

	if real, ok := idx[strings.ToLower(rel)]; ok {
		return real, true
	}

	return rel, false
}

// packageIndex lists the files of one package once, keyed by lowercased
// relative path.
func (r *Resolver) packageIndex(pkg int) (map[string]string, error) {
	if idx, ok := r.index[pkg]; ok {
		return idx, nil
	}

	pattern := path.Join(PackagesDir, common.Pad6(pkg), "**")

	matches, err := doublestar.Glob(os.DirFS(r.root), pattern,
		doublestar.WithFilesOnly(), doublestar.WithCaseInsensitive())
	if err != nil {
		return nil, fmt.Errorf("failed to list package %s: %w", common.Pad6(pkg), err)
	}

	idx := make(map[string]string, len(matches))
	for _, m := range matches {
		idx[strings.ToLower(m)] = m
	}

	r.index[pkg] = idx

	return idx, nil
}

// ImageSize reads the pixel size of a bitmap given by its root-relative
// path. It reports false when checking is off or the file cannot be decoded.
func (r *Resolver) ImageSize(rel string) (width, height int, ok bool) {
	if !r.check || rel == "" {
		return 0, 0, false
	}

	f, err := os.Open(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}

	return cfg.Width, cfg.Height, true
}
