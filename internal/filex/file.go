// Package filex contains file-system helpers for the client: preparing the
// directory of the local database and reading images picked for upload.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/plantdetector/internal/common"
)

// EnsureParentDir creates the directory that will hold path, if any.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadImage reads at most maxSize bytes of the file at path and checks that
// the content sniffs as an image. It returns the base name and the content.
func ReadImage(path string, maxSize int64) (string, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > maxSize {
		return "", nil, fmt.Errorf("%s is larger than %d bytes", path, maxSize)
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", nil, fmt.Errorf("%s: %w", path, common.ErrNotAnImage)
	}

	return filepath.Base(path), data, nil
}
