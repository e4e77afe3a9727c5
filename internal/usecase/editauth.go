package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

var authTracer = otel.Tracer("editauth")

// EditAuthUsecase drives the request/verify lifecycle of edit codes.
type EditAuthUsecase struct {
	repo   SignatureRepository
	tokens AuthTokenRepository
	mailer Mailer
}

func NewEditAuthUsecase(repo SignatureRepository, tokens AuthTokenRepository, mailer Mailer) *EditAuthUsecase {
	return &EditAuthUsecase{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
	}
}

// generateCode returns an unpredictable 6-digit decimal code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// RequestCode issues and mails an edit code for a registered email. For an
// unknown email it silently succeeds so callers cannot probe which addresses
// have signed. Multiple outstanding codes per email are permitted.
func (uc *EditAuthUsecase) RequestCode(ctx context.Context, email string, lang domain.Language) error {
	ctx, span := authTracer.Start(ctx, "EditAuth.RequestCode")
	defer span.End()

	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ValidationError{Field: "email_address", Reason: "required"}
	}

	person, err := uc.repo.GetPersonByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		span.RecordError(err)
		return errors.Wrap(err, "failed to look up person")
	}

	code, err := generateCode()
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to generate code")
	}

	_, err = uc.tokens.Create(ctx, domain.AuthToken{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(domain.EditCodeTTL),
	})
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to store code")
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendEditCode(ctx, email, person.FullName, code, lang); err != nil {
			slog.WarnContext(ctx, "edit code mail failed",
				slog.String("error", err.Error()),
				slog.String("module", "editauth"),
			)
		}
	}

	return nil
}

// VerifyCode checks a code and returns the person and record snapshot for
// editing. The code is not consumed here: the same code authenticates the
// final submit of the edit session. Expired, used and never-issued codes are
// indistinguishable to the caller.
func (uc *EditAuthUsecase) VerifyCode(ctx context.Context, email, code string) (domain.Person, domain.PetitionRecord, error) {
	ctx, span := authTracer.Start(ctx, "EditAuth.VerifyCode")
	defer span.End()

	email = domain.NormalizeEmail(email)

	_, err := uc.tokens.FindValid(ctx, email, strings.TrimSpace(code), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Person{}, domain.PetitionRecord{}, domain.ErrInvalidOrExpiredCode
		}
		span.RecordError(err)
		return domain.Person{}, domain.PetitionRecord{}, errors.Wrap(err, "failed to verify code")
	}

	person, err := uc.repo.GetPersonByEmail(ctx, email)
	if err != nil {
		return domain.Person{}, domain.PetitionRecord{}, err
	}
	record, err := uc.repo.GetRecordByPersonID(ctx, person.ID)
	if err != nil {
		return domain.Person{}, domain.PetitionRecord{}, err
	}

	return person, record, nil
}
