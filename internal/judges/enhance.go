package judges

import (
	"errors"
	"fmt"
	"strings"

	"benchwatch/internal/courtlistener"
)

// ErrNothingToEnhance is returned when a record carries no positions or
// educations to derive a profile from.
var ErrNothingToEnhance = errors.New("record has no enhanceable fields")

// BuildProfile derives supplementary descriptive fields from an upstream
// record. It is the enhancement step of reconciliation: failures here are
// logged by the caller and never fail the underlying create or update.
func BuildProfile(rec *courtlistener.JudgeRecord) (Profile, error) {
	pos := rec.ActivePosition()
	if pos == nil && len(rec.Educations) == 0 {
		return Profile{}, ErrNothingToEnhance
	}

	var p Profile
	if pos != nil {
		p.Appointer = pos.Appointer
		p.SelectionMethod = pos.HowSelected
		p.ServiceStart = pos.DateStarted
	}
	p.Education = educationSummary(rec.Educations)
	return p, nil
}

func educationSummary(educations []courtlistener.EducationRecord) string {
	entries := make([]string, 0, len(educations))
	for _, edu := range educations {
		if edu.School == "" {
			continue
		}
		entry := edu.School
		if edu.Degree != "" {
			entry = fmt.Sprintf("%s (%s", edu.School, edu.Degree)
			if edu.DegreeYear > 0 {
				entry = fmt.Sprintf("%s %d", entry, edu.DegreeYear)
			}
			entry += ")"
		}
		entries = append(entries, entry)
	}
	return strings.Join(entries, "; ")
}
