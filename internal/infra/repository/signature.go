package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database/models"
)

type SignatureRepository struct {
	db *gorm.DB
}

func NewSignatureRepository(db *gorm.DB) *SignatureRepository {
	return &SignatureRepository{db: db}
}

func personToModel(p domain.Person) models.Person {
	rels := make([]string, 0, len(p.Relationships))
	for _, r := range p.Relationships {
		rels = append(rels, string(r))
	}
	return models.Person{
		ID:                   p.ID,
		FullName:             p.FullName,
		EmailAddress:         p.EmailAddress,
		RelationshipToSchool: rels,
		StudentYearGroups:    p.StudentYearGroups,
		SubmissionLanguage:   string(p.SubmissionLanguage),
		CreatedAt:            p.CreatedAt,
	}
}

func personToDomain(m models.Person) domain.Person {
	rels := make([]domain.Relationship, 0, len(m.RelationshipToSchool))
	for _, r := range m.RelationshipToSchool {
		rels = append(rels, domain.Relationship(r))
	}
	return domain.Person{
		ID:                 m.ID,
		FullName:           m.FullName,
		EmailAddress:       m.EmailAddress,
		Relationships:      rels,
		StudentYearGroups:  m.StudentYearGroups,
		SubmissionLanguage: domain.Language(m.SubmissionLanguage),
		CreatedAt:          m.CreatedAt,
	}
}

func recordToModel(r domain.PetitionRecord) models.PetitionRecord {
	return models.PetitionRecord{
		ID:                  r.ID,
		PersonID:            r.PersonID,
		PetitionSupport:     r.PetitionSupport,
		SupportingComment:   r.SupportingComment,
		ConsentPublicUse:    r.ConsentPublicUse,
		SubmissionTimestamp: r.SubmissionTimestamp,
		CommentEN:           r.CommentEN,
		CommentFR:           r.CommentFR,
	}
}

func recordToDomain(m models.PetitionRecord) domain.PetitionRecord {
	return domain.PetitionRecord{
		ID:                  m.ID,
		PersonID:            m.PersonID,
		PetitionSupport:     m.PetitionSupport,
		SupportingComment:   m.SupportingComment,
		ConsentPublicUse:    m.ConsentPublicUse,
		SubmissionTimestamp: m.SubmissionTimestamp,
		CommentEN:           m.CommentEN,
		CommentFR:           m.CommentFR,
	}
}

func testimonialToModel(t domain.Testimonial) models.Testimonial {
	return models.Testimonial{
		ID:                t.ID,
		PersonID:          t.PersonID,
		PersonName:        t.PersonName,
		Content:           t.Content,
		ContentTranslated: t.ContentTranslated,
		ImageURL:          t.ImageURL,
		IsModerated:       t.IsModerated,
		Language:          string(t.Language),
		CreatedAt:         t.CreatedAt,
	}
}

func testimonialToDomain(m models.Testimonial) domain.Testimonial {
	return domain.Testimonial{
		ID:                m.ID,
		PersonID:          m.PersonID,
		PersonName:        m.PersonName,
		Content:           m.Content,
		ContentTranslated: m.ContentTranslated,
		ImageURL:          m.ImageURL,
		IsModerated:       m.IsModerated,
		Language:          domain.Language(m.Language),
		CreatedAt:         m.CreatedAt,
	}
}

func (r *SignatureRepository) GetPersonByEmail(ctx context.Context, email string) (domain.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("email_address = ?", email).Take(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Person{}, domain.NotFoundError{Resource: "person"}
		}
		return domain.Person{}, err
	}
	return personToDomain(person), nil
}

func (r *SignatureRepository) GetRecordByPersonID(ctx context.Context, personID string) (domain.PetitionRecord, error) {
	var record models.PetitionRecord
	err := r.db.WithContext(ctx).Where("person_id = ?", personID).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PetitionRecord{}, domain.NotFoundError{Resource: "petition record"}
		}
		return domain.PetitionRecord{}, err
	}
	return recordToDomain(record), nil
}

func (r *SignatureRepository) GetTestimonialByPersonID(ctx context.Context, personID string) (*domain.Testimonial, error) {
	var testimonial models.Testimonial
	err := r.db.WithContext(ctx).Where("person_id = ?", personID).Take(&testimonial).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := testimonialToDomain(testimonial)
	return &t, nil
}

// CreateSignature writes the person, their petition record and the optional
// testimonial in a single transaction. A concurrent signup with the same
// email loses on the unique email index rather than racing the fast-path
// check, and surfaces as ErrDuplicateSignature.
func (r *SignatureRepository) CreateSignature(ctx context.Context, person domain.Person, record domain.PetitionRecord, testimonial *domain.Testimonial) (domain.Person, domain.PetitionRecord, error) {
	person.ID = uuid.New().String()
	record.ID = uuid.New().String()
	record.PersonID = person.ID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		personModel := personToModel(person)
		if err := tx.Create(&personModel).Error; err != nil {
			return err
		}
		recordModel := recordToModel(record)
		if err := tx.Create(&recordModel).Error; err != nil {
			return err
		}
		if testimonial != nil {
			t := *testimonial
			t.ID = uuid.New().String()
			t.PersonID = person.ID
			testimonialModel := testimonialToModel(t)
			if err := tx.Create(&testimonialModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Person{}, domain.PetitionRecord{}, domain.ErrDuplicateSignature
		}
		return domain.Person{}, domain.PetitionRecord{}, err
	}

	return person, record, nil
}

// UpdateSignature persists an edited person/record pair and the testimonial
// upsert atomically. A failure on any write rolls the whole edit back.
func (r *SignatureRepository) UpdateSignature(ctx context.Context, person domain.Person, record domain.PetitionRecord, testimonial *domain.Testimonial) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		personModel := personToModel(person)
		if err := tx.Model(&models.Person{}).Where("id = ?", person.ID).Select("*").Omit("id", "created_at").Updates(&personModel).Error; err != nil {
			return err
		}
		recordModel := recordToModel(record)
		if err := tx.Model(&models.PetitionRecord{}).Where("id = ?", record.ID).Select("*").Omit("id", "person_id").Updates(&recordModel).Error; err != nil {
			return err
		}
		if testimonial != nil {
			t := *testimonial
			if t.ID == "" {
				t.ID = uuid.New().String()
				t.PersonID = person.ID
				testimonialModel := testimonialToModel(t)
				return tx.Create(&testimonialModel).Error
			}
			testimonialModel := testimonialToModel(t)
			return tx.Model(&models.Testimonial{}).Where("id = ?", t.ID).Select("*").Omit("id", "person_id", "created_at").Updates(&testimonialModel).Error
		}
		return nil
	})
}
