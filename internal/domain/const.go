package domain

import "time"

// Language is one of the two languages the site operates in.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageFR Language = "FR"
)

// ParseLanguage validates a boundary-supplied language value.
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case LanguageEN, LanguageFR:
		return Language(s), true
	default:
		return "", false
	}
}

// Other returns the opposite supported language.
func (l Language) Other() Language {
	if l == LanguageFR {
		return LanguageEN
	}
	return LanguageFR
}

// AnonymousName is the placeholder shown instead of a real name when a
// signer has not consented to public use.
func AnonymousName(lang Language) string {
	if lang == LanguageFR {
		return "Anonyme"
	}
	return "Anonymous"
}

// Relationship identifies how a signer relates to the school.
type Relationship string

const (
	RelLyceeParent         Relationship = "lycee_parent"
	RelHolyCrossParent     Relationship = "holy_cross_parent"
	RelLyceeAlumniParent   Relationship = "lycee_alumni_parent"
	RelHolyCrossAlumniPnt  Relationship = "holy_cross_alumni_parent"
	RelLyceeAlumniOver16   Relationship = "lycee_alumni_over_16"
	RelHolyCrossAlumniOv16 Relationship = "holy_cross_alumni_over_16"
	RelCurrentEmployee     Relationship = "current_school_employee"
	RelFormerEmployee      Relationship = "former_school_employee"
	RelProspectiveFamily   Relationship = "prospective_family"
	RelNeighbourSupporter  Relationship = "neighbour_supporter"
)

// RelationshipLabelsEN maps each relationship to its English display label.
var RelationshipLabelsEN = map[Relationship]string{
	RelLyceeParent:         "Lycée Parent",
	RelHolyCrossParent:     "Holy Cross Parent",
	RelLyceeAlumniParent:   "Lycée Alumni Parent",
	RelHolyCrossAlumniPnt:  "Holy Cross Alumni Parent",
	RelLyceeAlumniOver16:   "Lycée Alumni (over 16)",
	RelHolyCrossAlumniOv16: "Holy Cross Alumni (over 16)",
	RelCurrentEmployee:     "Current School Employee",
	RelFormerEmployee:      "Former School Employee",
	RelProspectiveFamily:   "Prospective Family",
	RelNeighbourSupporter:  "Neighbour / Supporter",
}

// RelationshipLabelsFR maps each relationship to its French display label.
var RelationshipLabelsFR = map[Relationship]string{
	RelLyceeParent:         "Parent d’élève du Lycée",
	RelHolyCrossParent:     "Parent d’élève de Holy Cross",
	RelLyceeAlumniParent:   "Parent d’un ancien élève du Lycée",
	RelHolyCrossAlumniPnt:  "Parent d’un ancien élève de Holy Cross",
	RelLyceeAlumniOver16:   "Ancien élève du Lycée (16 ans+)",
	RelHolyCrossAlumniOv16: "Ancien élève de Holy Cross (16 ans+)",
	RelCurrentEmployee:     "Membre du personnel actuel",
	RelFormerEmployee:      "Ancien membre du personnel",
	RelProspectiveFamily:   "Famille prospective",
	RelNeighbourSupporter:  "Riverain / Soutien",
}

// ParseRelationship validates a boundary-supplied relationship value.
func ParseRelationship(s string) (Relationship, bool) {
	r := Relationship(s)
	_, ok := RelationshipLabelsEN[r]
	return r, ok
}

// currentCommunity lists the relationships for which student year groups
// are required on signup.
var currentCommunity = map[Relationship]bool{
	RelLyceeParent:         true,
	RelHolyCrossParent:     true,
	RelLyceeAlumniOver16:   true,
	RelHolyCrossAlumniOv16: true,
	RelCurrentEmployee:     true,
}

// RequiresYearGroups reports whether any relationship in the set belongs to
// a current-community category.
func RequiresYearGroups(rels []Relationship) bool {
	for _, r := range rels {
		if currentCommunity[r] {
			return true
		}
	}
	return false
}

// EditCodeTTL is the validity window of an edit code.
const EditCodeTTL = 15 * time.Minute
