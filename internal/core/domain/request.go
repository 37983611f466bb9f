package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Request is one work-order request as returned by the reporting API.
// The API returns many template-specific fields; only the fields common
// to every template are decoded here. A Request is never mutated after
// retrieval, only replaced by a freshly fetched copy.
type Request struct {
	// RequestID uniquely identifies the request across all templates.
	RequestID string

	// Template is the request category, one of the configured template
	// names the reporting API recognises.
	Template string

	// Title is the human-readable summary line.
	Title string

	// Closed reports whether the external system has marked the
	// request closed.
	Closed bool

	// DateCreated is the creation timestamp as the API formats it.
	DateCreated string

	// Requestor identifies who filed the request.
	Requestor string
}

// requestJSON mirrors the wire shape. The API is inconsistent about the
// requestId type across templates (bare number vs string), so it is
// decoded through json.RawMessage.
type requestJSON struct {
	RequestID   json.RawMessage `json:"requestId"`
	Template    string          `json:"template"`
	Title       string          `json:"title"`
	Closed      bool            `json:"closed"`
	DateCreated string          `json:"dateCreated"`
	Requestor   string          `json:"requestor"`
}

// UnmarshalJSON decodes a Request, accepting both numeric and string
// request identifiers.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Template = raw.Template
	r.Title = raw.Title
	r.Closed = raw.Closed
	r.DateCreated = raw.DateCreated
	r.Requestor = raw.Requestor

	if len(raw.RequestID) == 0 {
		r.RequestID = ""
		return nil
	}
	if bytes.HasPrefix(raw.RequestID, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(raw.RequestID, &s); err != nil {
			return fmt.Errorf("decode requestId: %w", err)
		}
		r.RequestID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.RequestID, &n); err != nil {
		return fmt.Errorf("decode requestId: %w", err)
	}
	r.RequestID = n.String()
	return nil
}

// IdentifierSet returns the deduplicated request identifiers of records,
// sorted ascending. Sorting keeps runs deterministic for an unchanged
// remote state.
func IdentifierSet(records []Request) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.RequestID]; ok {
			continue
		}
		seen[rec.RequestID] = struct{}{}
		ids = append(ids, rec.RequestID)
	}
	sort.Strings(ids)
	return ids
}

// MergeRecords forms the daily record set: the union of today's open
// records and the records that closed since the previous baseline. Each
// identifier appears exactly once. When an identifier is present in both
// inputs (it closed mid-run), the closed copy wins because it is the
// more recent fetch.
func MergeRecords(open, closed []Request) []Request {
	closedIDs := make(map[string]struct{}, len(closed))
	for _, rec := range closed {
		closedIDs[rec.RequestID] = struct{}{}
	}

	merged := make([]Request, 0, len(open)+len(closed))
	seen := make(map[string]struct{}, len(open)+len(closed))
	for _, rec := range open {
		if _, superseded := closedIDs[rec.RequestID]; superseded {
			continue
		}
		if _, dup := seen[rec.RequestID]; dup {
			continue
		}
		seen[rec.RequestID] = struct{}{}
		merged = append(merged, rec)
	}
	for _, rec := range closed {
		if _, dup := seen[rec.RequestID]; dup {
			continue
		}
		seen[rec.RequestID] = struct{}{}
		merged = append(merged, rec)
	}
	return merged
}
