package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

var tracer = otel.Tracer("signature")

// SubmitInput is the validated input for a first signature.
type SubmitInput struct {
	FullName      string
	Email         string
	Relationships []domain.Relationship
	YearGroups    []string
	Comment       string
	ImageURL      string
	Consent       bool
	Support       bool
	Language      domain.Language
}

// SignatureUsecase creates and edits signatures, keeping Person,
// PetitionRecord and Testimonial consistent.
type SignatureUsecase struct {
	repo        SignatureRepository
	tokens      AuthTokenRepository
	translation *TranslationUsecase
	mailer      Mailer
}

func NewSignatureUsecase(
	repo SignatureRepository,
	tokens AuthTokenRepository,
	translation *TranslationUsecase,
	mailer Mailer,
) *SignatureUsecase {
	return &SignatureUsecase{
		repo:        repo,
		tokens:      tokens,
		translation: translation,
		mailer:      mailer,
	}
}

func (input SubmitInput) validate() error {
	if strings.TrimSpace(input.FullName) == "" {
		return domain.ValidationError{Field: "full_name", Reason: "required"}
	}
	email := domain.NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ValidationError{Field: "email_address", Reason: "malformed email"}
	}
	if len(input.Relationships) == 0 {
		return domain.ValidationError{Field: "relationship_to_school", Reason: "at least one relationship is required"}
	}
	for _, r := range input.Relationships {
		if _, ok := domain.ParseRelationship(string(r)); !ok {
			return domain.ValidationError{Field: "relationship_to_school", Reason: "unknown relationship"}
		}
	}
	if domain.RequiresYearGroups(input.Relationships) && len(input.YearGroups) == 0 {
		return domain.ValidationError{Field: "student_year_groups", Reason: "required for current school community members"}
	}
	if _, ok := domain.ParseLanguage(string(input.Language)); !ok {
		return domain.ValidationError{Field: "submission_language", Reason: "unsupported language"}
	}
	return nil
}

// Submit registers a first signature. The person, petition record and
// optional testimonial are written in one transaction; the one-signature-
// per-email invariant is enforced both by the fast-path lookup here and by
// the storage uniqueness constraint.
func (uc *SignatureUsecase) Submit(ctx context.Context, input SubmitInput) (domain.Person, domain.PetitionRecord, error) {
	ctx, span := tracer.Start(ctx, "Signature.Submit")
	defer span.End()

	if err := input.validate(); err != nil {
		return domain.Person{}, domain.PetitionRecord{}, err
	}

	email := domain.NormalizeEmail(input.Email)

	_, err := uc.repo.GetPersonByEmail(ctx, email)
	if err == nil {
		return domain.Person{}, domain.PetitionRecord{}, domain.ErrDuplicateSignature
	}
	if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.Person{}, domain.PetitionRecord{}, errors.Wrap(err, "failed to check existing signature")
	}

	now := time.Now()
	person := domain.Person{
		FullName:           strings.TrimSpace(input.FullName),
		EmailAddress:       email,
		Relationships:      input.Relationships,
		StudentYearGroups:  input.YearGroups,
		SubmissionLanguage: input.Language,
		CreatedAt:          now,
	}
	record := domain.PetitionRecord{
		PetitionSupport:     input.Support,
		SupportingComment:   input.Comment,
		ConsentPublicUse:    input.Consent,
		SubmissionTimestamp: now,
	}

	var testimonial *domain.Testimonial
	if strings.TrimSpace(input.Comment) != "" {
		b := uc.translation.EnsureBilingual(ctx, input.Comment)
		record.CommentEN = b.CommentEN
		record.CommentFR = b.CommentFR

		name := person.FullName
		if !input.Consent {
			name = domain.AnonymousName(person.SubmissionLanguage)
		}
		testimonial = &domain.Testimonial{
			PersonName:        name,
			Content:           input.Comment,
			ContentTranslated: b.Translated,
			ImageURL:          input.ImageURL,
			IsModerated:       true,
			Language:          b.Detected,
			CreatedAt:         now,
		}
	}

	created, createdRecord, err := uc.repo.CreateSignature(ctx, person, record, testimonial)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSignature) {
			return domain.Person{}, domain.PetitionRecord{}, domain.ErrDuplicateSignature
		}
		span.RecordError(err)
		return domain.Person{}, domain.PetitionRecord{}, errors.Wrap(err, "failed to store signature")
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendThankYou(ctx, created.EmailAddress, created.FullName, created.SubmissionLanguage); err != nil {
			slog.WarnContext(ctx, "thank-you mail failed",
				slog.String("error", err.Error()),
				slog.String("module", "signature"),
			)
		}
	}

	return created, createdRecord, nil
}

// ApplyEdit updates a signature under a valid edit code. Person and record
// updates are atomic as a pair; the testimonial follows the comment/consent
// transition rules; the code is consumed last and its failure only logged.
func (uc *SignatureUsecase) ApplyEdit(ctx context.Context, email, code string, personUpd domain.PersonUpdates, recordUpd domain.RecordUpdates) error {
	ctx, span := tracer.Start(ctx, "Signature.ApplyEdit")
	defer span.End()

	email = domain.NormalizeEmail(email)

	token, err := uc.tokens.FindValid(ctx, email, strings.TrimSpace(code), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAuthentication
		}
		span.RecordError(err)
		return errors.Wrap(err, "failed to verify edit code")
	}

	person, err := uc.repo.GetPersonByEmail(ctx, email)
	if err != nil {
		return err
	}
	record, err := uc.repo.GetRecordByPersonID(ctx, person.ID)
	if err != nil {
		return err
	}

	oldComment := record.SupportingComment
	oldConsent := record.ConsentPublicUse

	if personUpd.FullName != nil {
		if strings.TrimSpace(*personUpd.FullName) == "" {
			return domain.ValidationError{Field: "full_name", Reason: "required"}
		}
		person.FullName = strings.TrimSpace(*personUpd.FullName)
	}
	if personUpd.Relationships != nil {
		if len(*personUpd.Relationships) == 0 {
			return domain.ValidationError{Field: "relationship_to_school", Reason: "at least one relationship is required"}
		}
		for _, r := range *personUpd.Relationships {
			if _, ok := domain.ParseRelationship(string(r)); !ok {
				return domain.ValidationError{Field: "relationship_to_school", Reason: "unknown relationship"}
			}
		}
		person.Relationships = *personUpd.Relationships
	}
	if personUpd.StudentYearGroups != nil {
		person.StudentYearGroups = *personUpd.StudentYearGroups
	}
	if recordUpd.PetitionSupport != nil {
		record.PetitionSupport = *recordUpd.PetitionSupport
	}
	if recordUpd.SupportingComment != nil {
		record.SupportingComment = *recordUpd.SupportingComment
	}
	if recordUpd.ConsentPublicUse != nil {
		record.ConsentPublicUse = *recordUpd.ConsentPublicUse
	}

	commentChanged := record.SupportingComment != oldComment && strings.TrimSpace(record.SupportingComment) != ""
	consentChanged := record.ConsentPublicUse != oldConsent

	testimonial, err := uc.repo.GetTestimonialByPersonID(ctx, person.ID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to load testimonial")
	}

	displayName := person.FullName
	if !record.ConsentPublicUse {
		displayName = domain.AnonymousName(person.SubmissionLanguage)
	}

	switch {
	case testimonial == nil && strings.TrimSpace(record.SupportingComment) != "":
		b := uc.translation.EnsureBilingual(ctx, record.SupportingComment)
		record.CommentEN = b.CommentEN
		record.CommentFR = b.CommentFR
		testimonial = &domain.Testimonial{
			PersonID:          person.ID,
			PersonName:        displayName,
			Content:           record.SupportingComment,
			ContentTranslated: b.Translated,
			IsModerated:       true,
			Language:          b.Detected,
			CreatedAt:         time.Now(),
		}
	case testimonial == nil:
		// Nothing to carry: no testimonial and still no comment.
	case commentChanged:
		b := uc.translation.EnsureBilingual(ctx, record.SupportingComment)
		record.CommentEN = b.CommentEN
		record.CommentFR = b.CommentFR
		testimonial.Content = record.SupportingComment
		testimonial.ContentTranslated = b.Translated
		testimonial.Language = b.Detected
		testimonial.PersonName = displayName
		testimonial.IsModerated = true
	case consentChanged:
		// Consent flip alone only switches the display name; content and
		// translation stay byte-identical.
		testimonial.PersonName = displayName
	default:
		// Re-confirmed without changes.
		testimonial.PersonName = displayName
		testimonial.IsModerated = true
	}

	if err := uc.repo.UpdateSignature(ctx, person, record, testimonial); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to store edit")
	}

	if err := uc.tokens.MarkUsed(ctx, token.ID); err != nil {
		// The edit is already committed; the code stays replayable until
		// natural expiry.
		slog.WarnContext(ctx, "failed to consume edit code",
			slog.String("error", err.Error()),
			slog.String("module", "signature"),
		)
	}

	return nil
}
