// Package export writes layouts to viewable formats. It holds no GDS or
// LEF encoding; the writers here are for inspection.
package export

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/layout"
)

// Exporter writes a cell to w.
type Exporter interface {
	Export(c *layout.Cell, w io.Writer) error
}

// WriteFile exports c to the file at path, replacing it.
func WriteFile(e Exporter, c *layout.Cell, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "export: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "export: close %s", path)
		}
	}()
	if err := e.Export(c, f); err != nil {
		return errors.Wrapf(err, "export: %s", path)
	}
	logger().Debug("wrote", slog.String("path", path), slog.String("cell", c.Name))
	return nil
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "export"))
}
