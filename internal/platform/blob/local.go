package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider stores uploads under a directory on disk. Development only;
// the returned URLs point at the configured public base.
type LocalProvider struct {
	RootPath  string
	publicURL string
}

func NewLocalProvider(root, publicURL string) *LocalProvider {
	_ = os.MkdirAll(root, 0o755)
	return &LocalProvider{RootPath: root, publicURL: strings.TrimRight(publicURL, "/")}
}

func (l *LocalProvider) Put(key, contentType string, body io.Reader) (string, error) {
	// Uploads pick their own file names; keep them inside the root.
	clean := filepath.Clean("/" + key)
	path := filepath.Join(l.RootPath, clean)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return l.publicURL + strings.ReplaceAll(clean, string(filepath.Separator), "/"), nil
}

func (l *LocalProvider) Delete(key string) error {
	clean := filepath.Clean("/" + key)
	return os.Remove(filepath.Join(l.RootPath, clean))
}
