package router

import (
	"net/http"
	"strings"

	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/email"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type NewsletterRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
	mail   *email.Service
}

func NewNewsletterRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager, mail *email.Service) *NewsletterRouter {
	return &NewsletterRouter{e: e, store: store, tokens: tokens, mail: mail}
}

func (r *NewsletterRouter) Bind() {
	g := r.e.Group("/api/newsletter")
	g.POST("/subscribe", r.subscribe, auth.OptionalAuthenticate(r.tokens, r.store))
	g.POST("/unsubscribe", r.unsubscribe)
	g.GET("/unsubscribe", r.unsubscribe)

	prefs := r.e.Group("/api/email-preferences", auth.Authenticate(r.tokens, r.store))
	prefs.GET("", r.preferences)
	prefs.PUT("", r.updatePreferences)

	admin := r.e.Group("/api/admin/campaigns", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.GET("", r.listCampaigns)
	admin.POST("", r.createCampaign)
	admin.POST("/:id/send", r.sendCampaign)

	r.e.GET("/api/admin/subscribers", r.listSubscribers,
		auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
}

func (r *NewsletterRouter) listSubscribers(c echo.Context) error {
	var active *bool
	if raw := c.QueryParam("active"); raw != "" {
		v := raw == "true"
		active = &v
	}

	subscribers, err := r.store.ListSubscribers(c.Request().Context(), active, c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subscribers)
}

func (r *NewsletterRouter) subscribe(c echo.Context) error {
	var req dto.SubscribeRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	subscriber := &domain.Subscriber{
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Tags:   strings.Join(req.Tags, ","),
		UserID: currentUserID(c),
	}
	if err := r.store.Subscribe(c.Request().Context(), subscriber); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, subscriber)
}

// unsubscribe accepts both POST bodies and the GET links embedded in mail
// footers.
func (r *NewsletterRouter) unsubscribe(c echo.Context) error {
	address := c.QueryParam("email")
	if address == "" {
		var req dto.SubscribeRequest
		if err := validate.Bind(c, &req); err != nil {
			return err
		}
		address = req.Email
	}
	if address == "" {
		return apperr.NewValidation("Email is required")
	}

	if err := r.store.Unsubscribe(c.Request().Context(), strings.ToLower(strings.TrimSpace(address))); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Unsubscribed"})
}

func (r *NewsletterRouter) preferences(c echo.Context) error {
	user := auth.CurrentUser(c)
	sub, err := r.store.EmailSubscriptionByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

func (r *NewsletterRouter) updatePreferences(c echo.Context) error {
	var req dto.EmailPreferencesRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	sub := &domain.EmailSubscription{
		UserID:    user.ID,
		Email:     user.Email,
		Frequency: domain.EmailFrequency(req.Frequency),
		Topics:    strings.Join(req.Topics, ","),
		Active:    active,
	}
	if err := r.store.UpsertEmailSubscription(c.Request().Context(), sub); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

func (r *NewsletterRouter) listCampaigns(c echo.Context) error {
	campaigns, err := r.store.ListCampaigns(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaigns)
}

func (r *NewsletterRouter) createCampaign(c echo.Context) error {
	var req dto.CreateCampaignRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	campaign := &domain.Campaign{
		Subject:    req.Subject,
		Content:    req.Content,
		TargetTags: strings.Join(req.TargetTags, ","),
	}
	if err := r.store.CreateCampaign(c.Request().Context(), campaign); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

func (r *NewsletterRouter) sendCampaign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	sent, err := r.mail.SendCampaign(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"sent": sent})
}
