package domain

import (
	"strings"
	"time"
)

// Person is the root identity of a signer, keyed by normalized email.
type Person struct {
	ID                 string         `json:"id"`
	FullName           string         `json:"full_name"`
	EmailAddress       string         `json:"email_address"`
	Relationships      []Relationship `json:"relationship_to_school"`
	StudentYearGroups  []string       `json:"student_year_groups,omitempty"`
	SubmissionLanguage Language       `json:"submission_language"`
	CreatedAt          time.Time      `json:"created_at"`
}

// PetitionRecord holds one signer's stance and disclosure choice. At most
// one active record exists per person.
type PetitionRecord struct {
	ID                  string    `json:"id"`
	PersonID            string    `json:"person_id"`
	PetitionSupport     bool      `json:"petition_support"`
	SupportingComment   string    `json:"supporting_comment,omitempty"`
	ConsentPublicUse    bool      `json:"consent_public_use"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
	CommentEN           string    `json:"comment_en,omitempty"`
	CommentFR           string    `json:"comment_fr,omitempty"`
}

// Testimonial is the public-facing excerpt of a supporting comment. It is
// created whenever a comment accompanies a signature, but only shown when
// the record consents and the testimonial is moderated.
type Testimonial struct {
	ID                string    `json:"id"`
	PersonID          string    `json:"person_id"`
	PersonName        string    `json:"person_name"`
	Content           string    `json:"content"`
	ContentTranslated string    `json:"content_translated,omitempty"`
	ImageURL          string    `json:"image_url,omitempty"`
	IsModerated       bool      `json:"is_moderated"`
	Language          Language  `json:"language"`
	CreatedAt         time.Time `json:"created_at"`
}

// AuthToken is a short-lived edit credential looked up by email, not linked
// to Person by foreign key.
type AuthToken struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the token can still authorize an edit at the given time.
func (t AuthToken) Valid(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}

type ForumThread struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	AuthorName string       `json:"author_name"`
	Content    string       `json:"content"`
	AISummary  string       `json:"ai_summary,omitempty"`
	Language   Language     `json:"language"`
	Replies    []ForumReply `json:"replies"`
	CreatedAt  time.Time    `json:"created_at"`
}

type ForumReply struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// SiteContent is a keyed bilingual content block.
type SiteContent struct {
	Key string `json:"key"`
	EN  string `json:"en"`
	FR  string `json:"fr"`
}

// PersonUpdates carries the editable Person fields for an authenticated edit.
// Nil means "not supplied"; a pointer to an empty value means "set empty".
type PersonUpdates struct {
	FullName          *string         `json:"full_name,omitempty"`
	Relationships     *[]Relationship `json:"relationship_to_school,omitempty"`
	StudentYearGroups *[]string       `json:"student_year_groups,omitempty"`
}

// RecordUpdates carries the editable PetitionRecord fields for an
// authenticated edit, with the same nil/present semantics as PersonUpdates.
type RecordUpdates struct {
	PetitionSupport   *bool   `json:"petition_support,omitempty"`
	SupportingComment *string `json:"supporting_comment,omitempty"`
	ConsentPublicUse  *bool   `json:"consent_public_use,omitempty"`
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// every stored email goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
