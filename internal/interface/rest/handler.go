package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/interface/rest/presenter"
	"github.com/blackberry-uk/fulhambilingual/internal/service"
	"github.com/blackberry-uk/fulhambilingual/internal/usecase"
)

type Handler struct {
	signature *usecase.SignatureUsecase
	auth      *usecase.EditAuthUsecase
	analytics *usecase.AnalyticsUsecase
	forum     *usecase.ForumUsecase
	content   *usecase.ContentUsecase
	signal    *service.SignalService
}

func NewHandler(
	signature *usecase.SignatureUsecase,
	auth *usecase.EditAuthUsecase,
	analytics *usecase.AnalyticsUsecase,
	forum *usecase.ForumUsecase,
	content *usecase.ContentUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		signature: signature,
		auth:      auth,
		analytics: analytics,
		forum:     forum,
		content:   content,
		signal:    signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/signatures", h.handleSubmitSignature)
	e.POST("/api/v1/edit/request", h.handleEditRequest)
	e.POST("/api/v1/edit/verify", h.handleEditVerify)
	e.POST("/api/v1/edit", h.handleEditApply)
	e.GET("/api/v1/signatories", h.handleSignatories)
	e.GET("/api/v1/testimonials", h.handleTestimonials)
	e.GET("/api/v1/stats", h.handleStats)
	e.GET("/api/v1/stats/live", h.handleStatsLive)
	e.GET("/api/v1/analytics", h.handleAnalytics)
	e.GET("/api/v1/forum", h.handleForumList)
	e.POST("/api/v1/forum", h.handleForumCreate)
	e.POST("/api/v1/forum/:id/replies", h.handleForumReply)
	e.GET("/api/v1/content/:key", h.handleContent)
}

// respondError maps domain errors to HTTP statuses. Anything unrecognized is
// a 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ValidationError{}):
		return presenter.BadRequest(c, err)
	case errors.Is(err, domain.ErrDuplicateSignature):
		return presenter.Conflict(c, err)
	case errors.Is(err, domain.ErrAuthentication), errors.Is(err, domain.ErrInvalidOrExpiredCode):
		return presenter.Unauthorized(c, err)
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, err.Error())
	default:
		return presenter.InternalError(c, err)
	}
}

func parseRelationships(values []string) ([]domain.Relationship, bool) {
	rels := make([]domain.Relationship, 0, len(values))
	for _, v := range values {
		rel, ok := domain.ParseRelationship(v)
		if !ok {
			return nil, false
		}
		rels = append(rels, rel)
	}
	return rels, true
}

// mailLanguage picks the localization for outbound mail. Unlike stored
// language values, an unknown preference here falls back to EN instead of
// failing the request.
func mailLanguage(value string) domain.Language {
	if lang, ok := domain.ParseLanguage(value); ok {
		return lang
	}
	return domain.LanguageEN
}

type signatureRequest struct {
	FullName             string   `json:"full_name"`
	Email                string   `json:"email"`
	RelationshipToSchool []string `json:"relationship_to_school"`
	StudentYearGroups    []string `json:"student_year_groups"`
	SupportingComment    string   `json:"supporting_comment"`
	ImageURL             string   `json:"image_url"`
	ConsentPublicUse     bool     `json:"consent_public_use"`
	PetitionSupport      bool     `json:"petition_support"`
	Language             string   `json:"language"`
}

func (h *Handler) handleSubmitSignature(c echo.Context) error {
	ctx := c.Request().Context()

	var req signatureRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	rels, ok := parseRelationships(req.RelationshipToSchool)
	if !ok {
		return presenter.BadRequestMessage(c, "unknown relationship value")
	}
	lang, ok := domain.ParseLanguage(req.Language)
	if !ok {
		return presenter.BadRequestMessage(c, "unsupported language")
	}

	person, record, err := h.signature.Submit(ctx, usecase.SubmitInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Relationships: rels,
		YearGroups:    req.StudentYearGroups,
		Comment:       req.SupportingComment,
		ImageURL:      req.ImageURL,
		Consent:       req.ConsentPublicUse,
		Support:       req.PetitionSupport,
		Language:      lang,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.publishEvent(ctx, service.EventSignature, record.SupportingComment != "")

	return presenter.Created(c, echo.Map{
		"person": person,
		"record": record,
	})
}

type editRequestRequest struct {
	Email    string `json:"email"`
	Language string `json:"language"`
}

func (h *Handler) handleEditRequest(c echo.Context) error {
	ctx := c.Request().Context()

	var req editRequestRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Email == "" {
		return presenter.BadRequestMessage(c, "email is required")
	}

	if err := h.auth.RequestCode(ctx, req.Email, mailLanguage(req.Language)); err != nil {
		return respondError(c, err)
	}

	// Same reply whether or not the email is registered.
	return presenter.OK(c, echo.Map{"status": "if this email is registered, a code has been sent"})
}

type editVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handler) handleEditVerify(c echo.Context) error {
	ctx := c.Request().Context()

	var req editVerifyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	person, record, err := h.auth.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		return respondError(c, err)
	}

	return presenter.OK(c, echo.Map{
		"person": person,
		"record": record,
	})
}

type editApplyRequest struct {
	Email                string    `json:"email"`
	Code                 string    `json:"code"`
	FullName             *string   `json:"full_name"`
	RelationshipToSchool *[]string `json:"relationship_to_school"`
	StudentYearGroups    *[]string `json:"student_year_groups"`
	PetitionSupport      *bool     `json:"petition_support"`
	SupportingComment    *string   `json:"supporting_comment"`
	ConsentPublicUse     *bool     `json:"consent_public_use"`
}

func (h *Handler) handleEditApply(c echo.Context) error {
	ctx := c.Request().Context()

	var req editApplyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	personUpd := domain.PersonUpdates{
		FullName:          req.FullName,
		StudentYearGroups: req.StudentYearGroups,
	}
	if req.RelationshipToSchool != nil {
		rels, ok := parseRelationships(*req.RelationshipToSchool)
		if !ok {
			return presenter.BadRequestMessage(c, "unknown relationship value")
		}
		personUpd.Relationships = &rels
	}
	recordUpd := domain.RecordUpdates{
		PetitionSupport:   req.PetitionSupport,
		SupportingComment: req.SupportingComment,
		ConsentPublicUse:  req.ConsentPublicUse,
	}

	if err := h.signature.ApplyEdit(ctx, req.Email, req.Code, personUpd, recordUpd); err != nil {
		return respondError(c, err)
	}

	h.publishEvent(ctx, service.EventEdit, false)

	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleSignatories(c echo.Context) error {
	entries, err := h.analytics.Signatories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"signatories": entries, "count": len(entries)})
}

func (h *Handler) handleTestimonials(c echo.Context) error {
	testimonials, err := h.analytics.Testimonials(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"testimonials": testimonials})
}

func (h *Handler) handleStats(c echo.Context) error {
	count, err := h.analytics.SupportCount(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"support_count": count})
}

func (h *Handler) handleAnalytics(c echo.Context) error {
	overview, err := h.analytics.Overview(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, overview)
}

func (h *Handler) handleForumList(c echo.Context) error {
	threads, err := h.forum.ListThreads(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"threads": threads})
}

type threadRequest struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	Language   string `json:"language"`
}

func (h *Handler) handleForumCreate(c echo.Context) error {
	var req threadRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	lang, ok := domain.ParseLanguage(req.Language)
	if !ok {
		return presenter.BadRequestMessage(c, "unsupported language")
	}

	thread, err := h.forum.CreateThread(c.Request().Context(), usecase.ThreadInput{
		Title:      req.Title,
		AuthorName: req.AuthorName,
		Content:    req.Content,
		Language:   lang,
	})
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, thread)
}

type replyRequest struct {
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

func (h *Handler) handleForumReply(c echo.Context) error {
	var req replyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	reply, err := h.forum.AddReply(c.Request().Context(), usecase.ReplyInput{
		ThreadID:   c.Param("id"),
		AuthorName: req.AuthorName,
		Content:    req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, reply)
}

func (h *Handler) handleContent(c echo.Context) error {
	content, err := h.content.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, content)
}

// publishEvent pushes a live counter update. Best-effort: a redis failure
// never fails the request that triggered it.
func (h *Handler) publishEvent(ctx context.Context, eventType string, newTestimonial bool) {
	if h.signal == nil {
		return
	}
	count, err := h.analytics.SupportCount(ctx)
	if err != nil {
		slog.ErrorContext(
			ctx, "Failed to read support count for event",
			slog.String("error", err.Error()),
			slog.String("module", "rest"),
		)
		return
	}
	err = h.signal.Publish(ctx, service.Event{
		Type:           eventType,
		SupportCount:   count,
		TestimonialNew: newTestimonial,
	})
	if err != nil {
		slog.ErrorContext(
			ctx, "Failed to publish event",
			slog.String("error", err.Error()),
			slog.String("module", "rest"),
		)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleStatsLive(c echo.Context) error {
	if h.signal == nil {
		return presenter.ServiceUnavailable(c, "live stats are not available")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	count, err := h.analytics.SupportCount(ctx)
	if err == nil {
		ws.WriteJSON(service.Event{Type: "snapshot", SupportCount: count})
	}

	output := make(chan service.Event)
	go h.signal.Realtime(ctx, output)

	quit := make(chan struct{})

	go func() {
		for {
			_, _, err := ws.ReadMessage()
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing event",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
