// Package courtlistener defines the port to the authoritative court-records
// API and the record shapes the sync engine consumes. The HTTP implementation
// lives alongside it; tests use the Fake client.
package courtlistener

import (
	"context"
	"encoding/json"
	"time"
)

// Cursor is an opaque continuation token for the changed-records listing.
// Implementations choose the encoding; the sync engine only passes it back.
type Cursor string

// PositionRecord is one judicial position held by a person upstream.
// An open-ended position (no termination date) is the active one.
type PositionRecord struct {
	CourtID        string `json:"court"`
	CourtName      string `json:"court_full_name"`
	PositionType   string `json:"position_type"`
	Appointer      string `json:"appointer_name"`
	HowSelected    string `json:"how_selected"`
	DateStarted    string `json:"date_start"`
	DateTerminated string `json:"date_termination"`
}

// EducationRecord is one school attendance entry.
type EducationRecord struct {
	School     string `json:"school_name"`
	Degree     string `json:"degree_level"`
	DegreeYear int    `json:"degree_year"`
}

// JudgeRecord is the upstream representation of a judge. Raw preserves the
// exact payload so the local mirror can snapshot it verbatim.
type JudgeRecord struct {
	ID           string            `json:"-"`
	Name         string            `json:"name_full"`
	Jurisdiction string            `json:"jurisdiction"`
	DateModified time.Time         `json:"date_modified"`
	Positions    []PositionRecord  `json:"positions"`
	Educations   []EducationRecord `json:"educations"`
	Raw          json.RawMessage   `json:"-"`
}

// ActivePosition returns the position without a termination date, or the
// first listed position if every entry is closed. Nil when the record has
// no positions at all.
func (r *JudgeRecord) ActivePosition() *PositionRecord {
	for i := range r.Positions {
		if r.Positions[i].DateTerminated == "" {
			return &r.Positions[i]
		}
	}
	if len(r.Positions) > 0 {
		return &r.Positions[0]
	}
	return nil
}

// ListPage is one page of the changed-records listing, ordered
// most-recently-modified-first. Next is empty when the listing is exhausted.
type ListPage struct {
	Records []JudgeRecord
	Next    Cursor
}

// ListOptions narrows the changed-records listing.
type ListOptions struct {
	Jurisdiction string
	PageSize     int
}

// Client is the upstream API port. Rate-limit backoff and retries are the
// implementation's concern; callers see only records or errors.
// GetJudge wraps sentinel.ErrNotFound when the id is absent upstream.
type Client interface {
	ListChanged(ctx context.Context, cursor Cursor, opts ListOptions) (*ListPage, error)
	GetJudge(ctx context.Context, externalID string) (*JudgeRecord, error)
}
