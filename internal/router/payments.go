package router

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/payments"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type PaymentRouter struct {
	e       *echo.Echo
	store   *pg.Store
	tokens  *auth.TokenManager
	service *payments.Service
}

func NewPaymentRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager, service *payments.Service) *PaymentRouter {
	return &PaymentRouter{e: e, store: store, tokens: tokens, service: service}
}

func (r *PaymentRouter) Bind() {
	g := r.e.Group("/api/purchases", auth.Authenticate(r.tokens, r.store))
	g.POST("/intent", r.createIntent)
	g.POST("/confirm", r.confirm)
	g.GET("", r.myPurchases)

	// Stripe calls this directly; authentication is the signature header.
	r.e.POST("/api/webhooks/stripe", r.webhook)
}

func (r *PaymentRouter) createIntent(c echo.Context) error {
	var req dto.CreateIntentRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperr.NewValidation("Invalid articleId")
	}

	user := auth.CurrentUser(c)
	result, err := r.service.CreateIntent(c.Request().Context(), user.ID, articleID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.CreateIntentResponse{
		ClientSecret: result.ClientSecret,
		PurchaseID:   result.PurchaseID.String(),
		Amount:       result.Amount,
	})
}

func (r *PaymentRouter) confirm(c echo.Context) error {
	var req dto.ConfirmPurchaseRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	purchase, err := r.service.Confirm(c.Request().Context(), user.ID, req.PaymentIntentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, purchase)
}

func (r *PaymentRouter) myPurchases(c echo.Context) error {
	user := auth.CurrentUser(c)
	purchases, err := r.store.PurchasesByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, purchases)
}

func (r *PaymentRouter) webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.NewValidation("Unreadable webhook payload")
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := r.service.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
