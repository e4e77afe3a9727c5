package domain

import (
	"testing"
	"time"
)

func TestPublicName(t *testing.T) {
	person := Person{FullName: "Alice Martin", SubmissionLanguage: LanguageFR}

	if got := PublicName(PetitionRecord{ConsentPublicUse: true}, person); got != "Alice Martin" {
		t.Fatalf("consenting record should expose real name, got %q", got)
	}
	if got := PublicName(PetitionRecord{ConsentPublicUse: false}, person); got != "Anonyme" {
		t.Fatalf("non-consenting FR record should show Anonyme, got %q", got)
	}
	person.SubmissionLanguage = LanguageEN
	if got := PublicName(PetitionRecord{ConsentPublicUse: false}, person); got != "Anonymous" {
		t.Fatalf("non-consenting EN record should show Anonymous, got %q", got)
	}
}

func TestHasVisibleTestimonial(t *testing.T) {
	moderated := Testimonial{ID: "t1", IsModerated: true}
	unmoderated := Testimonial{ID: "t2", IsModerated: false}

	cases := []struct {
		name        string
		record      PetitionRecord
		testimonial *Testimonial
		want        bool
	}{
		{"all conditions met", PetitionRecord{SupportingComment: "Merci", ConsentPublicUse: true}, &moderated, true},
		{"no consent", PetitionRecord{SupportingComment: "Merci", ConsentPublicUse: false}, &moderated, false},
		{"no comment", PetitionRecord{SupportingComment: "", ConsentPublicUse: true}, &moderated, false},
		{"whitespace comment", PetitionRecord{SupportingComment: "   ", ConsentPublicUse: true}, &moderated, false},
		{"not moderated", PetitionRecord{SupportingComment: "Merci", ConsentPublicUse: true}, &unmoderated, false},
		{"no testimonial", PetitionRecord{SupportingComment: "Merci", ConsentPublicUse: true}, nil, false},
	}

	for _, tc := range cases {
		if got := HasVisibleTestimonial(tc.record, tc.testimonial); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestVisibleSignatoryListOrdering(t *testing.T) {
	now := time.Now()
	persons := map[string]Person{
		"p1": {ID: "p1", FullName: "Zoe", SubmissionLanguage: LanguageEN},
		"p2": {ID: "p2", FullName: "Alice", SubmissionLanguage: LanguageEN},
		"p3": {ID: "p3", FullName: "Bob", SubmissionLanguage: LanguageEN},
		"p4": {ID: "p4", FullName: "Carol", SubmissionLanguage: LanguageEN},
	}
	records := []PetitionRecord{
		{PersonID: "p1", PetitionSupport: true, ConsentPublicUse: true, SubmissionTimestamp: now},
		{PersonID: "p2", PetitionSupport: true, ConsentPublicUse: true, SubmissionTimestamp: now},
		{PersonID: "p3", PetitionSupport: true, ConsentPublicUse: false, SubmissionTimestamp: now},
		{PersonID: "p4", PetitionSupport: false, ConsentPublicUse: true, SubmissionTimestamp: now},
	}

	got := VisibleSignatoryList(records, persons, nil)

	if len(got) != 3 {
		t.Fatalf("expected 3 entries (non-supporter excluded), got %d", len(got))
	}
	if got[0].Name != "Alice" || got[1].Name != "Zoe" {
		t.Fatalf("consenting entries should come first alphabetically, got %q then %q", got[0].Name, got[1].Name)
	}
	if got[2].Name != "Anonymous" {
		t.Fatalf("non-consenting entry should trail with placeholder, got %q", got[2].Name)
	}
}

func TestVisibleSignatoryListTestimonialFlag(t *testing.T) {
	persons := map[string]Person{
		"p1": {ID: "p1", FullName: "Alice", SubmissionLanguage: LanguageEN},
		"p2": {ID: "p2", FullName: "Bob", SubmissionLanguage: LanguageEN},
	}
	records := []PetitionRecord{
		{PersonID: "p1", PetitionSupport: true, ConsentPublicUse: true, SupportingComment: "Merci"},
		{PersonID: "p2", PetitionSupport: true, ConsentPublicUse: false, SupportingComment: "Great school"},
	}
	testimonials := map[string]Testimonial{
		"p1": {ID: "t1", PersonID: "p1", IsModerated: true},
		"p2": {ID: "t2", PersonID: "p2", IsModerated: true},
	}

	got := VisibleSignatoryList(records, persons, testimonials)

	if !got[0].HasTestimonial || got[0].TestimonialID != "t1" {
		t.Fatalf("consenting entry should expose its testimonial, got %+v", got[0])
	}
	if got[1].HasTestimonial || got[1].TestimonialID != "" {
		t.Fatalf("non-consenting entry must not expose a testimonial even though a row exists, got %+v", got[1])
	}
}
