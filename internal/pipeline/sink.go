package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabsift/internal/utils"
)

// WithSink runs fn with a report writer. When path is empty fn gets fallback
// (io.Discard if nil); otherwise the file at path is created, parents
// included, and closed before WithSink returns whatever fn did.
func WithSink(path string, fallback io.Writer, fn func(w io.Writer) error) (err error) {
	if path == "" {
		if fallback == nil {
			fallback = io.Discard
		}
		return fn(fallback)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	bw := bufio.NewWriter(f)
	defer func() {
		ferr := bw.Flush()
		if cerr := f.Close(); ferr == nil {
			ferr = cerr
		}
		if err == nil && ferr != nil {
			err = fmt.Errorf("write report: %w", ferr)
		}
	}()
	return fn(bw)
}
