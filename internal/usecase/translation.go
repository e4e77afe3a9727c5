package usecase

import (
	"context"
	"log/slog"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

// Bilingual is a comment paired with its counterpart in the other supported
// language.
type Bilingual struct {
	Detected   domain.Language
	Translated string
	CommentEN  string
	CommentFR  string
}

// TranslationUsecase turns free text into a bilingual pair, tolerating
// provider failure. Translation is best-effort: it never blocks the caller.
type TranslationUsecase struct {
	translator Translator
}

func NewTranslationUsecase(translator Translator) *TranslationUsecase {
	return &TranslationUsecase{translator: translator}
}

// EnsureBilingual detects the comment's language and translates it into the
// other supported one. On detection failure the language defaults to EN; on
// translation failure the original text stands in for the translation.
func (uc *TranslationUsecase) EnsureBilingual(ctx context.Context, comment string) Bilingual {
	detected, err := uc.translator.DetectLanguage(ctx, comment)
	if err != nil {
		slog.WarnContext(ctx, "language detection failed, assuming EN",
			slog.String("error", err.Error()),
			slog.String("module", "translation"),
		)
		detected = domain.LanguageEN
	}
	if detected != domain.LanguageEN && detected != domain.LanguageFR {
		detected = domain.LanguageEN
	}

	target := detected.Other()
	translated, err := uc.translator.Translate(ctx, comment, detected, target)
	if err != nil {
		slog.WarnContext(ctx, "translation failed, falling back to original text",
			slog.String("error", err.Error()),
			slog.String("module", "translation"),
		)
		translated = comment
	}

	b := Bilingual{Detected: detected, Translated: translated}
	if detected == domain.LanguageEN {
		b.CommentEN = comment
		b.CommentFR = translated
	} else {
		b.CommentFR = comment
		b.CommentEN = translated
	}
	return b
}

// Summarize produces a short summary of a forum thread. Returns empty on
// provider failure; the thread keeps its previous summary.
func (uc *TranslationUsecase) Summarize(ctx context.Context, content string, replies []string) string {
	summary, err := uc.translator.Summarize(ctx, content, replies)
	if err != nil {
		slog.WarnContext(ctx, "thread summarization failed",
			slog.String("error", err.Error()),
			slog.String("module", "translation"),
		)
		return ""
	}
	return summary
}
