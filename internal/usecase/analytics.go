package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

// Overview aggregates the stored collections for the analytics page.
type Overview struct {
	TotalSignatures       int                     `json:"total_signatures"`
	RelationshipBreakdown map[string]int          `json:"relationship_breakdown"`
	YearGroupBreakdown    map[string]int          `json:"year_group_breakdown"`
	LanguageBreakdown     map[domain.Language]int `json:"language_breakdown"`
	ConsentRate           float64                 `json:"consent_rate"`
	TestimonialsCount     int64                   `json:"testimonials_count"`
}

// EnrichedTestimonial is a public testimonial annotated with the signer's
// relationship and year-group data.
type EnrichedTestimonial struct {
	domain.Testimonial
	Relationships []domain.Relationship `json:"relationship_to_school,omitempty"`
	YearGroups    []string              `json:"student_year_groups,omitempty"`
}

// AnalyticsUsecase derives the public read-only views: signatory list,
// testimonial list, support count and breakdowns. Pure derivations over the
// stored collections; nothing here mutates.
type AnalyticsUsecase struct {
	repo ListingRepository
}

func NewAnalyticsUsecase(repo ListingRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{repo: repo}
}

// yearGroupPattern matches a known grade code with an optional class suffix,
// e.g. "GSB", "GS-B", "GS B".
var yearGroupPattern = regexp.MustCompile(`^(PS|MS|GS|CP|CE1|CE2|CM1|CM2)[ -]?[A-Z]?$`)

// NormalizeYearGroup collapses class variants of a grade code onto the grade
// itself; unknown tokens fall back to their trimmed, uppercased form.
func NormalizeYearGroup(token string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(token))
	if m := yearGroupPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}

func (uc *AnalyticsUsecase) Overview(ctx context.Context) (Overview, error) {
	persons, err := uc.repo.ListPersons(ctx)
	if err != nil {
		return Overview{}, errors.Wrap(err, "failed to list persons")
	}
	records, err := uc.repo.ListRecords(ctx)
	if err != nil {
		return Overview{}, errors.Wrap(err, "failed to list records")
	}
	testimonials, err := uc.repo.CountTestimonials(ctx)
	if err != nil {
		return Overview{}, errors.Wrap(err, "failed to count testimonials")
	}

	overview := Overview{
		TotalSignatures:       len(records),
		RelationshipBreakdown: map[string]int{},
		YearGroupBreakdown:    map[string]int{},
		LanguageBreakdown:     map[domain.Language]int{},
		TestimonialsCount:     testimonials,
	}

	for _, person := range persons {
		for _, rel := range person.Relationships {
			label, ok := domain.RelationshipLabelsEN[rel]
			if !ok {
				label = string(rel)
			}
			overview.RelationshipBreakdown[label]++
		}
		for _, yg := range person.StudentYearGroups {
			overview.YearGroupBreakdown[NormalizeYearGroup(yg)]++
		}
		overview.LanguageBreakdown[person.SubmissionLanguage]++
	}

	if len(records) > 0 {
		consenting := 0
		for _, record := range records {
			if record.ConsentPublicUse {
				consenting++
			}
		}
		overview.ConsentRate = float64(consenting) / float64(len(records))
	}

	return overview, nil
}

// SupportCount returns the number of supporting records.
func (uc *AnalyticsUsecase) SupportCount(ctx context.Context) (int64, error) {
	return uc.repo.CountSupport(ctx)
}

// Signatories returns the ordered public signatory list per the consent
// policy.
func (uc *AnalyticsUsecase) Signatories(ctx context.Context) ([]domain.SignatoryEntry, error) {
	persons, err := uc.repo.ListPersons(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list persons")
	}
	records, err := uc.repo.ListRecords(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	testimonials, err := uc.repo.ListTestimonials(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list testimonials")
	}

	personsByID := make(map[string]domain.Person, len(persons))
	for _, p := range persons {
		personsByID[p.ID] = p
	}
	testimonialsByPerson := make(map[string]domain.Testimonial, len(testimonials))
	for _, t := range testimonials {
		testimonialsByPerson[t.PersonID] = t
	}

	return domain.VisibleSignatoryList(records, personsByID, testimonialsByPerson), nil
}

// Testimonials returns the publicly visible testimonials, newest first,
// enriched with the signer's relationship and year-group data.
func (uc *AnalyticsUsecase) Testimonials(ctx context.Context) ([]EnrichedTestimonial, error) {
	persons, err := uc.repo.ListPersons(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list persons")
	}
	records, err := uc.repo.ListRecords(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	testimonials, err := uc.repo.ListTestimonials(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list testimonials")
	}

	personsByID := make(map[string]domain.Person, len(persons))
	for _, p := range persons {
		personsByID[p.ID] = p
	}
	recordsByPerson := make(map[string]domain.PetitionRecord, len(records))
	for _, r := range records {
		recordsByPerson[r.PersonID] = r
	}

	visible := make([]EnrichedTestimonial, 0, len(testimonials))
	for _, t := range testimonials {
		record, ok := recordsByPerson[t.PersonID]
		if !ok {
			continue
		}
		testimonial := t
		if !domain.HasVisibleTestimonial(record, &testimonial) {
			continue
		}
		enriched := EnrichedTestimonial{Testimonial: testimonial}
		if person, ok := personsByID[t.PersonID]; ok {
			enriched.Relationships = person.Relationships
			enriched.YearGroups = person.StudentYearGroups
		}
		visible = append(visible, enriched)
	}

	// Newest first, matching the public page.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}
