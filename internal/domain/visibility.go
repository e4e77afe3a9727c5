package domain

import (
	"sort"
	"strings"
	"time"
)

// PublicName returns the name shown publicly for a record: the signer's real
// name when they consented, otherwise a localized placeholder.
func PublicName(record PetitionRecord, person Person) string {
	if record.ConsentPublicUse {
		return person.FullName
	}
	return AnonymousName(person.SubmissionLanguage)
}

// HasVisibleTestimonial reports whether a record contributes a publicly
// visible testimonial. A testimonial row existing is not enough: the record
// must carry a comment, consent must be given, and the testimonial must
// have passed moderation.
func HasVisibleTestimonial(record PetitionRecord, testimonial *Testimonial) bool {
	if testimonial == nil {
		return false
	}
	if strings.TrimSpace(record.SupportingComment) == "" {
		return false
	}
	return record.ConsentPublicUse && testimonial.IsModerated
}

// SignatoryEntry is one row of the public signatory list.
type SignatoryEntry struct {
	Name           string         `json:"name"`
	Relationships  []Relationship `json:"relationship_to_school"`
	YearGroups     []string       `json:"student_year_groups,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	HasTestimonial bool           `json:"has_testimonial"`
	TestimonialID  string         `json:"testimonial_id,omitempty"`
	consented      bool
}

// VisibleSignatoryList filters records down to supporters and orders them
// for public display: consenting entries first, each group alphabetically by
// display name. Non-consenting entries sort by their placeholder, which is
// stable but not individually meaningful.
func VisibleSignatoryList(records []PetitionRecord, persons map[string]Person, testimonials map[string]Testimonial) []SignatoryEntry {
	entries := make([]SignatoryEntry, 0, len(records))
	for _, record := range records {
		if !record.PetitionSupport {
			continue
		}
		person, ok := persons[record.PersonID]
		if !ok {
			continue
		}
		entry := SignatoryEntry{
			Name:          PublicName(record, person),
			Relationships: person.Relationships,
			YearGroups:    person.StudentYearGroups,
			Timestamp:     record.SubmissionTimestamp,
			consented:     record.ConsentPublicUse,
		}
		if t, ok := testimonials[record.PersonID]; ok && HasVisibleTestimonial(record, &t) {
			entry.HasTestimonial = true
			entry.TestimonialID = t.ID
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].consented != entries[j].consented {
			return entries[i].consented
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}
