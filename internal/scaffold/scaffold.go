package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed all:template
var templateFS embed.FS

// FS returns the embedded template tree rooted at its top directory.
func FS() fs.FS {
	sub, err := fs.Sub(templateFS, "template")
	if err != nil {
		// The directory is embedded at build time; a failure here is a
		// packaging defect.
		panic(fmt.Sprintf("scaffold: embedded template missing: %v", err))
	}
	return sub
}

// Open returns the template tree to render: dir when it is set, otherwise the
// embedded template.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return FS(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
