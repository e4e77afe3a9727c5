package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database/models"
)

// openTestDB gives each test its own in-memory database. cache=shared keeps
// the database alive across the pooled connections of one gorm.DB.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func fixturePerson(email string) domain.Person {
	return domain.Person{
		FullName:           "Alice Martin",
		EmailAddress:       email,
		Relationships:      []domain.Relationship{domain.RelLyceeParent},
		StudentYearGroups:  []string{"GSB"},
		SubmissionLanguage: domain.LanguageFR,
		CreatedAt:          time.Now(),
	}
}

func TestCreateSignatureRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSignatureRepository(db)
	ctx := context.Background()

	testimonial := &domain.Testimonial{
		PersonName:        "Alice Martin",
		Content:           "Merci",
		ContentTranslated: "Thank you",
		IsModerated:       true,
		Language:          domain.LanguageFR,
		CreatedAt:         time.Now(),
	}
	person, record, err := repo.CreateSignature(ctx, fixturePerson("alice@example.com"),
		domain.PetitionRecord{PetitionSupport: true, SupportingComment: "Merci", ConsentPublicUse: true, SubmissionTimestamp: time.Now()},
		testimonial,
	)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if person.ID == "" || record.ID == "" {
		t.Fatal("identifiers should be assigned")
	}

	got, err := repo.GetPersonByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.ID != person.ID || len(got.Relationships) != 1 || got.Relationships[0] != domain.RelLyceeParent {
		t.Fatalf("person round trip mismatch: %+v", got)
	}

	gotRecord, err := repo.GetRecordByPersonID(ctx, person.ID)
	if err != nil {
		t.Fatalf("record lookup failed: %v", err)
	}
	if !gotRecord.PetitionSupport || gotRecord.SupportingComment != "Merci" {
		t.Fatalf("record round trip mismatch: %+v", gotRecord)
	}

	gotTestimonial, err := repo.GetTestimonialByPersonID(ctx, person.ID)
	if err != nil {
		t.Fatalf("testimonial lookup failed: %v", err)
	}
	if gotTestimonial == nil || gotTestimonial.PersonID != person.ID {
		t.Fatalf("testimonial should be linked by person id, got %+v", gotTestimonial)
	}
}

func TestCreateSignatureDuplicateEmailRollsBack(t *testing.T) {
	db := openTestDB(t)
	repo := NewSignatureRepository(db)
	ctx := context.Background()

	if _, _, err := repo.CreateSignature(ctx, fixturePerson("alice@example.com"), domain.PetitionRecord{SubmissionTimestamp: time.Now()}, nil); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, _, err := repo.CreateSignature(ctx, fixturePerson("alice@example.com"),
		domain.PetitionRecord{SubmissionTimestamp: time.Now()},
		&domain.Testimonial{PersonName: "Alice Martin", Content: "again", CreatedAt: time.Now()},
	)
	if _, ok := err.(domain.DuplicateSignatureError); !ok {
		t.Fatalf("expected DuplicateSignatureError from the unique index, got %v", err)
	}

	var recordCount, testimonialCount int64
	db.Model(&models.PetitionRecord{}).Count(&recordCount)
	db.Model(&models.Testimonial{}).Count(&testimonialCount)
	if recordCount != 1 || testimonialCount != 0 {
		t.Fatalf("failed create must leave no partial rows: records=%d testimonials=%d", recordCount, testimonialCount)
	}
}

func TestGetPersonByEmailNotFound(t *testing.T) {
	repo := NewSignatureRepository(openTestDB(t))

	_, err := repo.GetPersonByEmail(context.Background(), "nobody@example.com")
	if _, ok := err.(domain.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateSignatureUpsertsTestimonial(t *testing.T) {
	db := openTestDB(t)
	repo := NewSignatureRepository(db)
	ctx := context.Background()

	person, record, err := repo.CreateSignature(ctx, fixturePerson("alice@example.com"), domain.PetitionRecord{SubmissionTimestamp: time.Now()}, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	person.FullName = "Alice M."
	record.SupportingComment = "Late comment"
	record.ConsentPublicUse = true
	err = repo.UpdateSignature(ctx, person, record, &domain.Testimonial{
		PersonName: "Alice M.",
		Content:    "Late comment",
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetPersonByEmail(ctx, "alice@example.com")
	if err != nil || got.FullName != "Alice M." {
		t.Fatalf("person update not visible: %+v %v", got, err)
	}
	gotRecord, _ := repo.GetRecordByPersonID(ctx, person.ID)
	if gotRecord.SupportingComment != "Late comment" || !gotRecord.ConsentPublicUse {
		t.Fatalf("record update not visible: %+v", gotRecord)
	}
	testimonial, err := repo.GetTestimonialByPersonID(ctx, person.ID)
	if err != nil || testimonial == nil {
		t.Fatalf("testimonial should have been created: %v", err)
	}
	if testimonial.PersonID != person.ID {
		t.Fatalf("testimonial must carry the owning person id, got %+v", testimonial)
	}
}

func TestUpdateSignatureRollsBackOnTestimonialConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewSignatureRepository(db)
	ctx := context.Background()

	person, record, err := repo.CreateSignature(ctx, fixturePerson("alice@example.com"),
		domain.PetitionRecord{SupportingComment: "Merci", ConsentPublicUse: true, SubmissionTimestamp: time.Now()},
		&domain.Testimonial{PersonName: "Alice Martin", Content: "Merci", CreatedAt: time.Now()},
	)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A second testimonial row for the same person violates the unique
	// index, so the whole update must roll back.
	person.FullName = "Alice M."
	record.SupportingComment = "Changed"
	err = repo.UpdateSignature(ctx, person, record, &domain.Testimonial{
		PersonName: "Alice M.",
		Content:    "Changed",
		CreatedAt:  time.Now(),
	})
	if err == nil {
		t.Fatal("conflicting testimonial insert should fail the update")
	}

	got, err := repo.GetPersonByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.FullName != "Alice Martin" {
		t.Fatalf("person change should have rolled back, got %q", got.FullName)
	}
	gotRecord, err := repo.GetRecordByPersonID(ctx, person.ID)
	if err != nil {
		t.Fatalf("record lookup failed: %v", err)
	}
	if gotRecord.SupportingComment != "Merci" {
		t.Fatalf("record change should have rolled back, got %q", gotRecord.SupportingComment)
	}
}

func TestAuthTokenFindValid(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuthTokenRepository(db)
	ctx := context.Background()
	now := time.Now()

	valid, err := repo.Create(ctx, domain.AuthToken{Email: "bob@example.com", Code: "111111", ExpiresAt: now.Add(time.Minute)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	repo.Create(ctx, domain.AuthToken{Email: "bob@example.com", Code: "222222", ExpiresAt: now.Add(-time.Minute)})

	got, err := repo.FindValid(ctx, "bob@example.com", "111111", now)
	if err != nil {
		t.Fatalf("valid token should match: %v", err)
	}
	if got.ID != valid.ID {
		t.Fatalf("unexpected token %s", got.ID)
	}

	if _, err := repo.FindValid(ctx, "bob@example.com", "222222", now); err == nil {
		t.Fatal("expired token must not match")
	}

	if err := repo.MarkUsed(ctx, valid.ID); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if _, err := repo.FindValid(ctx, "bob@example.com", "111111", now); err == nil {
		t.Fatal("used token must not match")
	}
}

func TestAuthTokenMultipleOutstanding(t *testing.T) {
	repo := NewAuthTokenRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now()

	repo.Create(ctx, domain.AuthToken{Email: "bob@example.com", Code: "333333", ExpiresAt: now.Add(time.Minute)})
	repo.Create(ctx, domain.AuthToken{Email: "bob@example.com", Code: "444444", ExpiresAt: now.Add(time.Minute)})

	for _, code := range []string{"333333", "444444"} {
		if _, err := repo.FindValid(ctx, "bob@example.com", code, now); err != nil {
			t.Errorf("outstanding code %s should verify: %v", code, err)
		}
	}
}

func TestForumThreadWithReplies(t *testing.T) {
	repo := NewForumRepository(openTestDB(t))
	ctx := context.Background()

	thread, err := repo.CreateThread(ctx, domain.ForumThread{
		Title:      "Open day",
		AuthorName: "Alice",
		Content:    "Who is going?",
		Language:   domain.LanguageEN,
		CreatedAt:  time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create thread failed: %v", err)
	}

	if _, err := repo.AddReply(ctx, domain.ForumReply{ThreadID: thread.ID, AuthorName: "Bob", Content: "Me", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("add reply failed: %v", err)
	}
	if err := repo.UpdateSummary(ctx, thread.ID, "Parents coordinating attendance."); err != nil {
		t.Fatalf("update summary failed: %v", err)
	}

	threads, err := repo.ListThreads(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(threads) != 1 || len(threads[0].Replies) != 1 {
		t.Fatalf("expected one thread with one reply, got %+v", threads)
	}
	if threads[0].AISummary != "Parents coordinating attendance." {
		t.Fatalf("summary not persisted: %q", threads[0].AISummary)
	}
}

func TestContentRepositoryWithoutCache(t *testing.T) {
	db := openTestDB(t)
	repo := NewContentRepository(db, nil)
	ctx := context.Background()

	db.Create(&models.SiteContent{Key: "hero", ENContent: "Save the school", FRContent: "Sauvons l'école"})

	content, err := repo.Get(ctx, "hero")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if content.EN != "Save the school" || content.FR != "Sauvons l'école" {
		t.Fatalf("content mismatch: %+v", content)
	}

	if _, err := repo.Get(ctx, "missing"); err == nil {
		t.Fatal("missing key should return NotFoundError")
	}
}
