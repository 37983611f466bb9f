package csvfile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// baselineFileName holds the open-identifier baseline carried between
// runs. One identifier per line, no header.
const baselineFileName = "open_request_ids.csv"

var _ driven.BaselineStore = (*BaselineStore)(nil)

// BaselineStore persists the open-identifier baseline as a flat file
// next to the daily record files.
type BaselineStore struct {
	dir string
}

// NewBaselineStore creates a store rooted at dir.
func NewBaselineStore(dir string) *BaselineStore {
	return &BaselineStore{dir: dir}
}

// Path returns the baseline file path.
func (s *BaselineStore) Path() string {
	return filepath.Join(s.dir, baselineFileName)
}

// Read returns the persisted baseline. A missing file means no
// baseline has been established yet and yields an empty slice.
func (s *BaselineStore) Read(_ context.Context) ([]string, error) {
	f, err := os.Open(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open baseline file: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read baseline file: %w", err)
	}
	return ids, nil
}

// Write replaces the baseline atomically via a temp file and rename.
func (s *BaselineStore) Write(_ context.Context, ids []string) error {
	tmp, err := os.CreateTemp(s.dir, baselineFileName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, id := range ids {
		if _, err := w.WriteString(id + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("write identifier %s: %w", id, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush baseline: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
