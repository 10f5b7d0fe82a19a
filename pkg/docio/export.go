package docio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/atthecodeface/diagramc/pkg/errors"
)

// Export writes one rendered artifact to dir as "<name>.<format>",
// creating the directory if needed, and returns the written path.
//
// name is typically the input file's base name; Export strips any
// extension it still carries so "timer.json" becomes "timer.svg".
func Export(dir, name, format string, data []byte) (string, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "artifact name is empty")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "create output dir %s", dir)
	}

	path := filepath.Join(dir, base+"."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return path, nil
}
