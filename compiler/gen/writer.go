package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
)

// WriterMetrics counts the generated output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// fileWriter renders jennifer files into a directory. It is safe for
// concurrent use.
type fileWriter struct {
	dir string

	mu      sync.Mutex
	metrics WriterMetrics
}

func newFileWriter(dir string) *fileWriter {
	return &fileWriter{dir: dir}
}

// write renders f and writes it to name.
func (w *fileWriter) write(f *jen.File, name string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(w.dir, name)
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return fmt.Errorf("format %s: %w", name, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(buf.Len())
	w.mu.Unlock()
	return nil
}

func (w *fileWriter) snapshot() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}
