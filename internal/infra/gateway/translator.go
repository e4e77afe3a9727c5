package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/usecase"
)

const generateTimeout = 10 * time.Second

// TranslatorGateway talks to a generative-language API for translation,
// language detection and thread summaries. Identical prompts are served from
// an in-process cache so repeated edits of the same comment do not re-bill.
type TranslatorGateway struct {
	client   *http.Client
	cache    *cache.Cache
	endpoint string
	apiKey   string
	model    string
}

func NewTranslatorGateway(endpoint, apiKey, model string) *TranslatorGateway {
	return &TranslatorGateway{
		client:   &http.Client{Timeout: generateTimeout},
		cache:    cache.New(10*time.Minute, 15*time.Minute),
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

func (g *TranslatorGateway) generate(ctx context.Context, prompt string) (string, error) {
	cacheKey := promptKey(prompt)
	if cached, found := g.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errors.Errorf("language model returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode response")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty completion")
	}

	result := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	g.cache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func languageName(lang domain.Language) string {
	if lang == domain.LanguageFR {
		return "French"
	}
	return "English"
}

func (g *TranslatorGateway) Translate(ctx context.Context, text string, from, to domain.Language) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following %s text to %s. Preserve the tone and keep it natural. Reply with the translation only, no preamble.\n\n%s",
		languageName(from), languageName(to), text,
	)
	return g.generate(ctx, prompt)
}

func (g *TranslatorGateway) DetectLanguage(ctx context.Context, text string) (domain.Language, error) {
	prompt := fmt.Sprintf(
		"Identify the language of the following text. Reply with exactly one word: \"en\" for English or \"fr\" for French. If it is neither, reply \"en\".\n\n%s",
		text,
	)
	reply, err := g.generate(ctx, prompt)
	if err != nil {
		return domain.LanguageEN, err
	}
	lang, ok := domain.ParseLanguage(strings.ToUpper(strings.Trim(reply, " .\"'")))
	if !ok {
		return domain.LanguageEN, errors.Errorf("unrecognized detection reply: %q", reply)
	}
	return lang, nil
}

func (g *TranslatorGateway) Summarize(ctx context.Context, content string, replies []string) (string, error) {
	var b strings.Builder
	b.WriteString("Summarize this community forum discussion in two sentences or fewer, in the language the discussion is written in.\n\n")
	b.WriteString("Original post:\n")
	b.WriteString(content)
	for i, reply := range replies {
		fmt.Fprintf(&b, "\n\nReply %d:\n%s", i+1, reply)
	}
	return g.generate(ctx, b.String())
}

var _ usecase.Translator = (*TranslatorGateway)(nil)
