package build

import (
	"fmt"
	"io"
	"os"
)

// CombineOverlays concatenates the overlay files, in order, into one temp
// file and returns its path. No overlays means no file and an empty path.
func CombineOverlays(dir string, overlays []string) (string, error) {
	if len(overlays) == 0 {
		return "", nil
	}

	f, err := os.CreateTemp(dir, "extra-hwdef-*.dat")
	if err != nil {
		return "", fmt.Errorf("create overlay file: %w", err)
	}
	name := f.Name()

	for _, p := range overlays {
		if err := appendFile(f, p); err != nil {
			_ = f.Close()
			_ = os.Remove(name)
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close overlay file: %w", err)
	}
	return name, nil
}

func appendFile(dst *os.File, path string) error {
	src, err := os.Open(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("read overlay: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("append overlay %s: %w", path, err)
	}
	return nil
}
