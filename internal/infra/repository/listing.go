package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database/models"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) ListPersons(ctx context.Context) ([]domain.Person, error) {
	var persons []models.Person
	if err := r.db.WithContext(ctx).Find(&persons).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Person, 0, len(persons))
	for _, p := range persons {
		result = append(result, personToDomain(p))
	}
	return result, nil
}

func (r *ListingRepository) ListRecords(ctx context.Context) ([]domain.PetitionRecord, error) {
	var records []models.PetitionRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]domain.PetitionRecord, 0, len(records))
	for _, record := range records {
		result = append(result, recordToDomain(record))
	}
	return result, nil
}

func (r *ListingRepository) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	var testimonials []models.Testimonial
	if err := r.db.WithContext(ctx).Find(&testimonials).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Testimonial, 0, len(testimonials))
	for _, t := range testimonials {
		result = append(result, testimonialToDomain(t))
	}
	return result, nil
}

func (r *ListingRepository) CountSupport(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PetitionRecord{}).
		Where("petition_support = ?", true).
		Count(&count).Error
	return count, err
}

func (r *ListingRepository) CountTestimonials(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Testimonial{}).Count(&count).Error
	return count, err
}
