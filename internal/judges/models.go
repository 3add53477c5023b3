// Package judges holds the locally mirrored judge entity and its store port.
package judges

import (
	"time"

	"github.com/google/uuid"

	"benchwatch/internal/courtlistener"
)

// Judge is the local mirror of an upstream person record. The external id is
// immutable and unique once set; the engine never hard-deletes rows.
type Judge struct {
	ID              uuid.UUID
	CourtListenerID string
	Name            string

	// Derived from the record's active position.
	CurrentCourt string
	Jurisdiction string
	PositionType string

	// Raw is the verbatim upstream payload snapshot.
	Raw []byte

	Profile Profile

	LastSyncedAt time.Time
	CreatedAt    time.Time
}

// Profile holds supplementary descriptive fields derived during enhancement.
// These are best-effort: a judge row without them is a valid degraded state.
type Profile struct {
	Appointer       string
	SelectionMethod string
	Education       string
	ServiceStart    string
}

// FromRecord seeds a new Judge from an upstream record, including the
// active-position derivation.
func FromRecord(rec *courtlistener.JudgeRecord, now time.Time) Judge {
	j := Judge{
		CourtListenerID: rec.ID,
		Jurisdiction:    rec.Jurisdiction,
		CreatedAt:       now,
	}
	j.ApplyRecord(rec, now)
	return j
}

// ApplyRecord overwrites the mutable fields of an existing Judge from a fresh
// upstream record. The external id is never touched.
func (j *Judge) ApplyRecord(rec *courtlistener.JudgeRecord, now time.Time) {
	j.Name = rec.Name
	j.Raw = append([]byte(nil), rec.Raw...)
	j.LastSyncedAt = now
	if rec.Jurisdiction != "" {
		j.Jurisdiction = rec.Jurisdiction
	}
	if pos := rec.ActivePosition(); pos != nil {
		j.CurrentCourt = pos.CourtName
		j.PositionType = pos.PositionType
	}
}
