package router

import (
	"fmt"
	"net/http"

	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/citation"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type CitationRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
}

func NewCitationRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager) *CitationRouter {
	return &CitationRouter{e: e, store: store, tokens: tokens}
}

func (r *CitationRouter) Bind() {
	r.e.GET("/api/articles/:id/citations", r.byArticle)
	r.e.GET("/api/articles/:id/citations/export", r.export)

	admin := r.e.Group("/api", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.POST("/articles/:id/citations", r.create)
	admin.PUT("/citations/:id", r.update)
	admin.DELETE("/citations/:id", r.delete)
}

func (r *CitationRouter) byArticle(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	citations, err := r.store.CitationsByArticle(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, citations)
}

// export streams the article's reference list as a downloadable BibTeX or
// RIS file, picked by the format query param.
func (r *CitationRouter) export(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	format, err := citation.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return apperr.NewValidation(err.Error())
	}

	citations, err := r.store.CitationsByArticle(c.Request().Context(), articleID)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("citations-%s.%s", articleID, format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, format.ContentType(), []byte(citation.Export(format, citations)))
}

func (r *CitationRouter) create(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateCitationRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	entry := &domain.Citation{
		ArticleID: articleID,
		Authors:   req.Authors,
		Title:     req.Title,
		Year:      req.Year,
		Journal:   req.Journal,
		Volume:    req.Volume,
		Pages:     req.Pages,
		DOI:       req.DOI,
		URL:       req.URL,
		Order:     req.Order,
	}
	if err := r.store.CreateCitation(c.Request().Context(), entry); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (r *CitationRouter) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCitationRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	upd := pg.CitationUpdate{
		Authors: req.Authors,
		Title:   req.Title,
		Year:    req.Year,
		Journal: req.Journal,
		Volume:  req.Volume,
		Pages:   req.Pages,
		DOI:     req.DOI,
		URL:     req.URL,
		Order:   req.Order,
	}

	ctx := c.Request().Context()
	if err := r.store.UpdateCitation(ctx, id, upd); err != nil {
		return err
	}

	entry, err := r.store.CitationByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (r *CitationRouter) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := r.store.DeleteCitation(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
