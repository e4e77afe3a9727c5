package usecase

import (
	"context"
	"time"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

// SignatureRepository defines storage operations for the person / petition
// record / testimonial aggregate. Multi-row writes are atomic: either the
// whole signature is persisted or nothing is.
type SignatureRepository interface {
	GetPersonByEmail(ctx context.Context, email string) (domain.Person, error)
	GetRecordByPersonID(ctx context.Context, personID string) (domain.PetitionRecord, error)
	// GetTestimonialByPersonID returns nil without error when no testimonial exists.
	GetTestimonialByPersonID(ctx context.Context, personID string) (*domain.Testimonial, error)
	CreateSignature(ctx context.Context, person domain.Person, record domain.PetitionRecord, testimonial *domain.Testimonial) (domain.Person, domain.PetitionRecord, error)
	UpdateSignature(ctx context.Context, person domain.Person, record domain.PetitionRecord, testimonial *domain.Testimonial) error
}

// AuthTokenRepository defines storage operations for edit codes.
type AuthTokenRepository interface {
	Create(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error)
	// FindValid returns any unused, unexpired token matching email and code,
	// or domain.ErrNotFound.
	FindValid(ctx context.Context, email, code string, now time.Time) (domain.AuthToken, error)
	MarkUsed(ctx context.Context, id string) error
}

// ListingRepository defines the read-only collection scans backing public
// views and analytics.
type ListingRepository interface {
	ListPersons(ctx context.Context) ([]domain.Person, error)
	ListRecords(ctx context.Context) ([]domain.PetitionRecord, error)
	ListTestimonials(ctx context.Context) ([]domain.Testimonial, error)
	CountSupport(ctx context.Context) (int64, error)
	CountTestimonials(ctx context.Context) (int64, error)
}

// ForumRepository defines storage operations for forum threads and replies.
type ForumRepository interface {
	CreateThread(ctx context.Context, thread domain.ForumThread) (domain.ForumThread, error)
	AddReply(ctx context.Context, reply domain.ForumReply) (domain.ForumReply, error)
	GetThread(ctx context.Context, id string) (domain.ForumThread, error)
	ListThreads(ctx context.Context) ([]domain.ForumThread, error)
	UpdateSummary(ctx context.Context, threadID, summary string) error
}

// ContentRepository defines lookup of keyed bilingual site content.
type ContentRepository interface {
	Get(ctx context.Context, key string) (domain.SiteContent, error)
}

// Translator encapsulates the external translation/detection provider. Any
// of these calls may fail; callers degrade rather than propagate.
type Translator interface {
	Translate(ctx context.Context, text string, from, to domain.Language) (string, error)
	DetectLanguage(ctx context.Context, text string) (domain.Language, error)
	Summarize(ctx context.Context, content string, replies []string) (string, error)
}

// Mailer encapsulates outbound email delivery. Failures are logged, never
// surfaced: mail is best-effort notification.
type Mailer interface {
	SendEditCode(ctx context.Context, email, name, code string, lang domain.Language) error
	SendThankYou(ctx context.Context, email, name string, lang domain.Language) error
}
