// Package csvfile persists the daily record sets and the open-identifier
// baseline as flat CSV files, the handoff format the downstream
// warehouse loaders consume.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// dailyFileBaseName prefixes the dated per-run file.
const dailyFileBaseName = "todays_request_data"

// commonFields is the fixed column set shared by every template,
// independent of template-specific fields. Column order is part of the
// downstream contract.
var commonFields = []string{"template", "title", "closed", "dateCreated", "requestor", "requestId"}

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore writes one uniquely named CSV per calendar date.
type RecordStore struct {
	dir string
}

// NewRecordStore creates a store rooted at dir. The directory must
// already exist.
func NewRecordStore(dir string) *RecordStore {
	return &RecordStore{dir: dir}
}

// DailyPath returns the file path used for one calendar date.
func (s *RecordStore) DailyPath(day time.Time) string {
	name := fmt.Sprintf("%s-%s.csv", dailyFileBaseName, domain.FormatDate(day))
	return filepath.Join(s.dir, name)
}

// WriteDaily persists the record set for one date, replacing any file
// written earlier for the same date. The write goes through a temp
// file and rename so a crash never leaves a half-written daily file
// for the verification read to trust.
func (s *RecordStore) WriteDaily(_ context.Context, day time.Time, records []domain.Request) error {
	tmp, err := os.CreateTemp(s.dir, dailyFileBaseName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(commonFields); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Template,
			rec.Title,
			strconv.FormatBool(rec.Closed),
			rec.DateCreated,
			rec.Requestor,
			rec.RequestID,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row for request %s: %w", rec.RequestID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush rows: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.DailyPath(day)); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ReadDailyIDs reads back the requestId column for one date, in row
// order including duplicates, so the verification step can detect both
// missing rows and duplicated rows.
func (s *RecordStore) ReadDailyIDs(_ context.Context, day time.Time) ([]string, error) {
	f, err := os.Open(s.DailyPath(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("daily file for %s: %w", domain.FormatDate(day), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open daily file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idCol := -1
	for i, name := range header {
		if name == "requestId" {
			idCol = i
			break
		}
	}
	if idCol == -1 {
		return nil, fmt.Errorf("%w: daily file has no requestId column", domain.ErrInvalidInput)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row[idCol]
	}
	return ids, nil
}
