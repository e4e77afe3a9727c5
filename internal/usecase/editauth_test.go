package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

func seedPerson(repo *mockSignatureRepo, email string) domain.Person {
	person := domain.Person{
		ID:                 "p1",
		FullName:           "Bob Leroy",
		EmailAddress:       email,
		SubmissionLanguage: domain.LanguageFR,
	}
	repo.persons[email] = person
	repo.records["p1"] = domain.PetitionRecord{ID: "r1", PersonID: "p1", PetitionSupport: true}
	return person
}

func TestRequestCodeMasksUnknownEmail(t *testing.T) {
	repo := newMockSignatureRepo()
	tokens := &mockTokenRepo{}
	mailer := &mockMailer{}
	uc := NewEditAuthUsecase(repo, tokens, mailer)

	if err := uc.RequestCode(context.Background(), "nobody@example.com", domain.LanguageEN); err != nil {
		t.Fatalf("unknown email must look like success, got %v", err)
	}
	if len(tokens.tokens) != 0 {
		t.Fatal("no token should be issued for an unknown email")
	}
	if len(mailer.codes) != 0 {
		t.Fatal("no mail should be sent for an unknown email")
	}
}

func TestRequestCodeIssuesToken(t *testing.T) {
	repo := newMockSignatureRepo()
	seedPerson(repo, "bob@example.com")
	tokens := &mockTokenRepo{}
	mailer := &mockMailer{}
	uc := NewEditAuthUsecase(repo, tokens, mailer)

	before := time.Now()
	if err := uc.RequestCode(context.Background(), " Bob@Example.com ", domain.LanguageFR); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("expected one token, got %d", len(tokens.tokens))
	}
	token := tokens.tokens[0]
	if token.Email != "bob@example.com" {
		t.Fatalf("token should use the normalized email, got %q", token.Email)
	}
	if len(token.Code) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", token.Code)
	}
	for _, c := range token.Code {
		if c < '0' || c > '9' {
			t.Fatalf("code must be decimal, got %q", token.Code)
		}
	}
	window := token.ExpiresAt.Sub(before)
	if window < 14*time.Minute || window > 16*time.Minute {
		t.Fatalf("expected roughly 15 minute expiry, got %v", window)
	}
	if len(mailer.codes) != 1 || mailer.codes[0] != token.Code {
		t.Fatal("the issued code should be mailed")
	}
}

func TestVerifyCode(t *testing.T) {
	repo := newMockSignatureRepo()
	person := seedPerson(repo, "bob@example.com")
	tokens := &mockTokenRepo{}
	uc := NewEditAuthUsecase(repo, tokens, &mockMailer{})

	tokens.Create(context.Background(), domain.AuthToken{
		Email: "bob@example.com", Code: "111111", ExpiresAt: time.Now().Add(time.Minute),
	})

	gotPerson, gotRecord, err := uc.VerifyCode(context.Background(), "BOB@example.com", " 111111 ")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if gotPerson.ID != person.ID || gotRecord.PersonID != person.ID {
		t.Fatalf("expected snapshot of the signer, got %+v / %+v", gotPerson, gotRecord)
	}

	// Verification does not consume: the same code verifies again.
	if _, _, err := uc.VerifyCode(context.Background(), "bob@example.com", "111111"); err != nil {
		t.Fatalf("replay within the session must verify, got %v", err)
	}
}

func TestVerifyCodeFailureModes(t *testing.T) {
	repo := newMockSignatureRepo()
	seedPerson(repo, "bob@example.com")
	tokens := &mockTokenRepo{}
	uc := NewEditAuthUsecase(repo, tokens, &mockMailer{})

	tokens.Create(context.Background(), domain.AuthToken{
		Email: "bob@example.com", Code: "222222", ExpiresAt: time.Now().Add(-time.Minute),
	})
	used, _ := tokens.Create(context.Background(), domain.AuthToken{
		Email: "bob@example.com", Code: "333333", ExpiresAt: time.Now().Add(time.Minute),
	})
	tokens.MarkUsed(context.Background(), used.ID)

	cases := []struct {
		name string
		code string
	}{
		{"expired", "222222"},
		{"used", "333333"},
		{"never issued", "444444"},
	}
	for _, tc := range cases {
		_, _, err := uc.VerifyCode(context.Background(), "bob@example.com", tc.code)
		if err != domain.ErrInvalidOrExpiredCode {
			t.Errorf("%s: expected ErrInvalidOrExpiredCode, got %v", tc.name, err)
		}
	}
}

func TestVerifyCodeMultipleOutstanding(t *testing.T) {
	repo := newMockSignatureRepo()
	seedPerson(repo, "bob@example.com")
	tokens := &mockTokenRepo{}
	uc := NewEditAuthUsecase(repo, tokens, &mockMailer{})

	tokens.Create(context.Background(), domain.AuthToken{
		Email: "bob@example.com", Code: "555555", ExpiresAt: time.Now().Add(time.Minute),
	})
	tokens.Create(context.Background(), domain.AuthToken{
		Email: "bob@example.com", Code: "666666", ExpiresAt: time.Now().Add(time.Minute),
	})

	for _, code := range []string{"555555", "666666"} {
		if _, _, err := uc.VerifyCode(context.Background(), "bob@example.com", code); err != nil {
			t.Errorf("outstanding code %s should verify, got %v", code, err)
		}
	}
}

func TestRequestCodeMailFailureIgnored(t *testing.T) {
	repo := newMockSignatureRepo()
	seedPerson(repo, "bob@example.com")
	tokens := &mockTokenRepo{}
	uc := NewEditAuthUsecase(repo, tokens, &mockMailer{fail: true})

	if err := uc.RequestCode(context.Background(), "bob@example.com", domain.LanguageEN); err != nil {
		t.Fatalf("mail failure must not surface: %v", err)
	}
	if len(tokens.tokens) != 1 {
		t.Fatal("token should still be stored when mail fails")
	}
}
