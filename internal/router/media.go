package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/objstore"
	"github.com/inkpress/inkpress/internal/pdf"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/labstack/echo/v4"
)

// maxUploadSize caps media uploads at 50 MiB.
const maxUploadSize = 50 << 20

type MediaRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
	bucket *objstore.Client
	pdfs   *pdf.Generator
}

func NewMediaRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager, bucket *objstore.Client, pdfs *pdf.Generator) *MediaRouter {
	return &MediaRouter{e: e, store: store, tokens: tokens, bucket: bucket, pdfs: pdfs}
}

func (r *MediaRouter) Bind() {
	r.e.GET("/api/articles/:id/media", r.byArticle)
	r.e.GET("/api/articles/:id/pdf", r.downloadPDF)
	r.e.GET("/api/articles/:id/pdfs", r.listPDFs)

	admin := r.e.Group("/api", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.POST("/articles/:id/media", r.upload)
	admin.DELETE("/media/:id", r.delete)
	admin.POST("/articles/:id/pdf", r.generatePDF)
}

func (r *MediaRouter) byArticle(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	media, err := r.store.MediaByArticle(ctx, articleID)
	if err != nil {
		return err
	}

	// refresh presigned links; stored URLs may have expired
	for i := range media {
		url, err := r.bucket.PresignedURL(ctx, media[i].ObjectKey, objstore.MediaURLTTL)
		if err == nil {
			media[i].URL = url
		}
	}
	return c.JSON(http.StatusOK, media)
}

func (r *MediaRouter) upload(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.NewValidation("File is required")
	}
	if fileHeader.Size > maxUploadSize {
		return apperr.NewValidation("File exceeds the 50MB upload limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	mediaType, err := mediaTypeFor(contentType)
	if err != nil {
		return err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ctx := c.Request().Context()
	key := fmt.Sprintf("media/%s/%s%s", articleID, uuid.New(), filepath.Ext(fileHeader.Filename))
	if err := r.bucket.Upload(ctx, key, src, fileHeader.Size, contentType); err != nil {
		return err
	}

	url, err := r.bucket.PresignedURL(ctx, key, objstore.MediaURLTTL)
	if err != nil {
		return err
	}

	media := &domain.Media{
		ArticleID: articleID,
		URL:       url,
		Type:      mediaType,
		ObjectKey: key,
		Size:      fileHeader.Size,
	}
	if err := r.store.CreateMedia(ctx, media); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, media)
}

func (r *MediaRouter) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	media, err := r.store.MediaByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.DeleteMedia(ctx, id); err != nil {
		return err
	}
	if err := r.bucket.Remove(ctx, media.ObjectKey); err != nil {
		slog.Error("Failed to remove object", "key", media.ObjectKey, "error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// generatePDF forces a fresh render, even when one already exists.
func (r *MediaRouter) generatePDF(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	entry, err := r.renderPDF(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (r *MediaRouter) renderPDF(ctx context.Context, articleID uuid.UUID) (*domain.ArticlePDF, error) {
	article, err := r.store.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	citations, err := r.store.CitationsByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	rendered, err := r.pdfs.Render(article, citations)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("pdfs/%s/%s.pdf", articleID, uuid.New())
	if err := r.bucket.Upload(ctx, key, bytes.NewReader(rendered), int64(len(rendered)), "application/pdf"); err != nil {
		return nil, err
	}

	url, err := r.bucket.PresignedURL(ctx, key, objstore.PDFURLTTL)
	if err != nil {
		return nil, err
	}

	revisions, err := r.store.CountArticleVersions(ctx, articleID)
	if err != nil {
		return nil, err
	}

	entry := &domain.ArticlePDF{
		ArticleID: articleID,
		PDFURL:    url,
		ObjectKey: key,
		Version:   fmt.Sprintf("v%d", revisions+1),
	}
	if err := r.store.CreateArticlePDF(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *MediaRouter) listPDFs(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	pdfs, err := r.store.PDFsByArticle(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pdfs)
}

// downloadPDF hands out a fresh link to the newest generated PDF, rendering
// one on first request, and counts the download.
func (r *MediaRouter) downloadPDF(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	entry, err := r.store.LatestArticlePDF(ctx, articleID)
	if err != nil {
		var nf *apperr.NotFoundError
		if !errors.As(err, &nf) {
			return err
		}
		if entry, err = r.renderPDF(ctx, articleID); err != nil {
			return err
		}
	} else if url, err := r.bucket.PresignedURL(ctx, entry.ObjectKey, objstore.PDFURLTTL); err == nil {
		entry.PDFURL = url
	}

	if err := r.store.IncrementPDFDownloads(ctx, entry.ID); err != nil {
		slog.Error("Failed to count pdf download", "pdf_id", entry.ID, "error", err)
	}
	return c.JSON(http.StatusOK, entry)
}

func mediaTypeFor(contentType string) (domain.MediaType, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.MediaImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return domain.MediaVideo, nil
	}
	return "", apperr.NewValidation("Only image and video uploads are supported")
}
