package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/droidgen-labs/droidgen/internal/logging"
	"github.com/droidgen-labs/droidgen/internal/resolve"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
	execPerm os.FileMode = 0755
)

// invalidSegmentChars may not appear in a rendered path segment on any of
// the platforms a project is opened on.
const invalidSegmentChars = `/\:*?"<>|`

// node is one planned output entry.
type node struct {
	src     string
	out     string
	dir     bool
	binary  bool
	mode    os.FileMode
	content []byte
}

// Entry is one entry of a rendered tree.
type Entry struct {
	// Path is slash-separated and relative to the tree root.
	Path   string
	Dir    bool
	Binary bool
	Size   int
}

// Tree is the materialized output of a render.
type Tree struct {
	Root    string
	Entries []Entry
}

// Files returns the relative paths of all files in the tree.
func (t *Tree) Files() []string {
	var files []string
	for _, e := range t.Entries {
		if !e.Dir {
			files = append(files, e.Path)
		}
	}
	return files
}

// Template is a loaded template tree.
type Template struct {
	fsys     fs.FS
	manifest *Manifest
}

// Load reads the manifest of the template rooted at fsys.
func Load(fsys fs.FS) (*Template, error) {
	m, err := LoadManifest(fsys)
	if err != nil {
		return nil, err
	}
	return &Template{fsys: fsys, manifest: m}, nil
}

// Render loads the template rooted at fsys and renders it into dest.
func Render(fsys fs.FS, dest string, ctx *resolve.Context) (*Tree, error) {
	t, err := Load(fsys)
	if err != nil {
		return nil, &RenderError{Op: "load", Err: err}
	}
	return t.Render(dest, ctx)
}

// Render substitutes ctx into every path and text body of the template and
// writes the result to dest. All substitution happens before the first
// write, so template errors never touch the filesystem.
func (t *Template) Render(dest string, ctx *resolve.Context) (*Tree, error) {
	logger := logging.GetLogger("render")
	done := logging.LogOperationStart(logger, "render")
	defer done()

	nodes, err := t.plan(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.checkRequired(nodes); err != nil {
		return nil, err
	}
	logger.Debug().Int("entries", len(nodes)).Str("dest", dest).Msg("Render planned")

	info, err := os.Lstat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = writeViaScratch(dest, nodes, false)
	case err != nil:
		return nil, &RenderError{Op: "stat", Path: dest, Err: err}
	case !info.IsDir():
		return nil, &RenderError{Op: "preflight", Path: dest, Err: fmt.Errorf("%w: destination exists and is not a directory", ErrCollision)}
	default:
		empty, emptyErr := isEmptyDir(dest)
		if emptyErr != nil {
			return nil, &RenderError{Op: "stat", Path: dest, Err: emptyErr}
		}
		if empty {
			err = writeViaScratch(dest, nodes, true)
		} else {
			err = writeInPlace(dest, nodes)
		}
	}
	if err != nil {
		return nil, err
	}

	tree := &Tree{Root: dest, Entries: make([]Entry, 0, len(nodes))}
	for _, n := range nodes {
		tree.Entries = append(tree.Entries, Entry{Path: n.out, Dir: n.dir, Binary: n.binary, Size: len(n.content)})
	}
	return tree, nil
}

// plan walks the template in lexical order and renders every path and text
// body in memory.
func (t *Template) plan(ctx *resolve.Context) ([]node, error) {
	var nodes []node
	seen := make(map[string]string)

	err := fs.WalkDir(t.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &RenderError{Op: "walk", Path: p, Err: err}
		}
		if p == "." {
			return nil
		}
		if t.manifest.IsExcluded(p) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			// Symlinks and special files are not part of a template.
			return nil
		}

		out, err := renderPath(p, ctx)
		if err != nil {
			return &RenderError{Op: "path", Path: p, Err: err}
		}
		if prev, dup := seen[out]; dup {
			return &RenderError{Op: "path", Path: p, Err: fmt.Errorf("%w: renders to %s, same as %s", ErrCollision, out, prev)}
		}
		seen[out] = p

		n := node{src: p, out: out, dir: d.IsDir(), mode: dirPerm}
		if !n.dir {
			n.mode = filePerm
			if info, infoErr := d.Info(); infoErr == nil && info.Mode().Perm()&0111 != 0 {
				n.mode = execPerm
			}
			data, readErr := fs.ReadFile(t.fsys, p)
			if readErr != nil {
				return &RenderError{Op: "read", Path: p, Err: readErr}
			}
			if t.manifest.IsBinary(p) {
				n.binary = true
				n.content = data
			} else {
				body, subErr := Substitute(string(data), ctx)
				if subErr != nil {
					return &RenderError{Op: "content", Path: p, Err: subErr}
				}
				n.content = []byte(body)
			}
		}
		nodes = append(nodes, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// checkRequired makes sure every required glob of the manifest matches at
// least one planned output path.
func (t *Template) checkRequired(nodes []node) error {
	var missing []string
	for _, pattern := range t.manifest.Required {
		found := false
		for _, n := range nodes {
			if ok, _ := doublestar.Match(pattern, n.out); ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, pattern)
		}
	}
	if len(missing) > 0 {
		return &RenderError{Op: "verify", Err: fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))}
	}
	return nil
}

// renderPath substitutes each segment of a slash-separated template path.
func renderPath(p string, ctx *resolve.Context) (string, error) {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		rendered, err := Substitute(seg, ctx)
		if err != nil {
			return "", err
		}
		if err := validateSegment(rendered); err != nil {
			return "", fmt.Errorf("segment %q: %w", seg, err)
		}
		segments[i] = rendered
	}
	return path.Join(segments...), nil
}

func validateSegment(seg string) error {
	switch seg {
	case "":
		return fmt.Errorf("%w: renders empty", ErrInvalidPath)
	case ".", "..":
		return fmt.Errorf("%w: renders to %q", ErrInvalidPath, seg)
	}
	if strings.ContainsAny(seg, invalidSegmentChars) {
		return fmt.Errorf("%w: %q contains one of %s", ErrInvalidPath, seg, invalidSegmentChars)
	}
	for _, r := range seg {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidPath, seg)
		}
	}
	return nil
}

// writeViaScratch writes the tree to a sibling scratch directory and renames
// it onto dest, so dest only ever appears complete.
func writeViaScratch(dest string, nodes []node, replaceEmpty bool) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, dirPerm); err != nil {
		return &RenderError{Op: "mkdir", Path: parent, Err: err}
	}
	scratch, err := os.MkdirTemp(parent, "."+filepath.Base(dest)+".tmp-")
	if err != nil {
		return &RenderError{Op: "scratch", Path: parent, Err: err}
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	if err := os.Chmod(scratch, dirPerm); err != nil {
		cleanup()
		return &RenderError{Op: "scratch", Path: scratch, Err: err}
	}
	for _, n := range nodes {
		if err := writeNode(scratch, n); err != nil {
			cleanup()
			return err
		}
	}

	if replaceEmpty {
		if err := os.Remove(dest); err != nil {
			cleanup()
			return &RenderError{Op: "replace", Path: dest, Err: err}
		}
	}
	if err := os.Rename(scratch, dest); err != nil {
		cleanup()
		if replaceEmpty {
			_ = os.Mkdir(dest, dirPerm)
		}
		return &RenderError{Op: "rename", Path: dest, Err: err}
	}
	return nil
}

// writeInPlace renders into an existing, non-empty directory. Every planned
// entry is checked before the first write; a failed write removes what this
// render created.
func writeInPlace(dest string, nodes []node) error {
	for _, n := range nodes {
		target := filepath.Join(dest, filepath.FromSlash(n.out))
		info, err := os.Lstat(target)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return &RenderError{Op: "preflight", Path: n.out, Err: err}
		}
		if n.dir && info.IsDir() {
			continue
		}
		return &RenderError{Op: "preflight", Path: n.out, Err: fmt.Errorf("%w: %s already exists", ErrCollision, target)}
	}

	var created []string
	for _, n := range nodes {
		target := filepath.Join(dest, filepath.FromSlash(n.out))
		if n.dir {
			if _, err := os.Lstat(target); err == nil {
				continue
			}
		}
		if err := writeNode(dest, n); err != nil {
			rollback(created)
			return err
		}
		created = append(created, target)
	}
	return nil
}

func rollback(created []string) {
	for i := len(created) - 1; i >= 0; i-- {
		_ = os.Remove(created[i])
	}
}

func writeNode(root string, n node) error {
	target := filepath.Join(root, filepath.FromSlash(n.out))
	if n.dir {
		if err := os.Mkdir(target, n.mode); err != nil {
			return &RenderError{Op: "mkdir", Path: n.out, Err: err}
		}
		return nil
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, n.mode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			err = fmt.Errorf("%w: %w", ErrCollision, err)
		}
		return &RenderError{Op: "write", Path: n.out, Err: err}
	}
	if _, err := f.Write(n.content); err != nil {
		f.Close()
		return &RenderError{Op: "write", Path: n.out, Err: err}
	}
	if err := f.Close(); err != nil {
		return &RenderError{Op: "write", Path: n.out, Err: err}
	}
	return nil
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
