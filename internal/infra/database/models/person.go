package models

import (
	"time"
)

type Person struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:text"`
	FullName             string    `json:"full_name" gorm:"type:text;not null"`
	EmailAddress         string    `json:"email_address" gorm:"type:text;not null;uniqueIndex:uniq_person_email"`
	RelationshipToSchool []string  `json:"relationship_to_school" gorm:"type:text;serializer:json"`
	StudentYearGroups    []string  `json:"student_year_groups" gorm:"type:text;serializer:json"`
	SubmissionLanguage   string    `json:"submission_language" gorm:"type:text;not null"`
	CreatedAt            time.Time `json:"created_at" gorm:"not null"`
}

type PetitionRecord struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:text"`
	PersonID            string    `json:"person_id" gorm:"type:text;not null;uniqueIndex:uniq_record_person"`
	Person              Person    `json:"-" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE;"`
	PetitionSupport     bool      `json:"petition_support" gorm:"not null;index"`
	SupportingComment   string    `json:"supporting_comment" gorm:"type:text"`
	ConsentPublicUse    bool      `json:"consent_public_use" gorm:"not null;index"`
	SubmissionTimestamp time.Time `json:"submission_timestamp" gorm:"not null"`
	CommentEN           string    `json:"comment_en" gorm:"type:text"`
	CommentFR           string    `json:"comment_fr" gorm:"type:text"`
}

type Testimonial struct {
	ID                string    `json:"id" gorm:"primaryKey;type:text"`
	PersonID          string    `json:"person_id" gorm:"type:text;not null;uniqueIndex:uniq_testimonial_person"`
	Person            Person    `json:"-" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE;"`
	PersonName        string    `json:"person_name" gorm:"type:text;not null"`
	Content           string    `json:"content" gorm:"type:text;not null"`
	ContentTranslated string    `json:"content_translated" gorm:"type:text"`
	ImageURL          string    `json:"image_url" gorm:"type:text"`
	IsModerated       bool      `json:"is_moderated" gorm:"not null;index"`
	Language          string    `json:"language" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null"`
}

type AuthToken struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Email     string    `json:"email" gorm:"type:text;not null;index"`
	Code      string    `json:"code" gorm:"type:text;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
