// Package rangefile loads ISBN range tables from a file system.
package rangefile

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/yourusername/open-isbn/pkg/isbn"
)

// Load reads a JSON range document from path on fs.
func Load(fs afero.Fs, path string) (*isbn.RangeTable, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open range file %s: %w", path, err)
	}
	defer f.Close()

	t, err := isbn.LoadRangeTable(f)
	if err != nil {
		return nil, fmt.Errorf("range file %s: %w", path, err)
	}
	slog.Info("loaded range table", "path", path, "prefixes", t.Prefixes())
	return t, nil
}

// LoadOrDefault loads path when it is set and falls back to the embedded table
// otherwise.
func LoadOrDefault(fs afero.Fs, path string) (*isbn.RangeTable, error) {
	if path == "" {
		return isbn.DefaultRangeTable(), nil
	}
	return Load(fs, path)
}
