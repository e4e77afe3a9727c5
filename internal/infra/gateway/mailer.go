package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/usecase"
)

const mailTimeout = 10 * time.Second

// MailGateway sends transactional mail through a Resend-compatible HTTP API.
type MailGateway struct {
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
	siteName string
}

func NewMailGateway(endpoint, apiKey, from, siteName string) *MailGateway {
	return &MailGateway{
		client:   &http.Client{Timeout: mailTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		siteName: siteName,
	}
}

type mailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (g *MailGateway) send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(mailRequest{
		From:    g.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode mail")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/emails", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "mail request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("mail provider returned %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

func (g *MailGateway) SendEditCode(ctx context.Context, email, name, code string, lang domain.Language) error {
	var subject, html string
	if lang == domain.LanguageFR {
		subject = fmt.Sprintf("%s : votre code de modification", g.siteName)
		html = fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Votre code de modification est : <strong>%s</strong></p><p>Il expire dans 15 minutes. Si vous n'avez pas demandé ce code, ignorez ce message.</p>",
			name, code,
		)
	} else {
		subject = fmt.Sprintf("%s: your edit code", g.siteName)
		html = fmt.Sprintf(
			"<p>Hello %s,</p><p>Your edit code is: <strong>%s</strong></p><p>It expires in 15 minutes. If you did not request this code, please ignore this message.</p>",
			name, code,
		)
	}
	return g.send(ctx, email, subject, html)
}

func (g *MailGateway) SendThankYou(ctx context.Context, email, name string, lang domain.Language) error {
	var subject, html string
	if lang == domain.LanguageFR {
		subject = fmt.Sprintf("Merci d'avoir signé : %s", g.siteName)
		html = fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Merci d'avoir signé la pétition. Votre soutien compte pour notre communauté scolaire.</p>",
			name,
		)
	} else {
		subject = fmt.Sprintf("Thank you for signing: %s", g.siteName)
		html = fmt.Sprintf(
			"<p>Hello %s,</p><p>Thank you for signing the petition. Your support matters to our school community.</p>",
			name,
		)
	}
	return g.send(ctx, email, subject, html)
}

var _ usecase.Mailer = (*MailGateway)(nil)
