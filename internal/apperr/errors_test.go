package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/inkpress/inkpress/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid expression", inner)

	if err.Error() != "invalid expression: parse failed" {
		t.Errorf("expected 'invalid expression: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("empty title")

	wrapped := fmt.Errorf("failed to create article: %w", original)
	doubleWrapped := fmt.Errorf("handler error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "empty title" {
		t.Errorf("expected 'empty title', got %q", ve.Message)
	}
}

func TestTypedErrors_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var nf *apperr.NotFoundError
	if errors.As(wrapped, &nf) {
		t.Fatal("errors.As should NOT find NotFoundError in plain error chain")
	}
	var cf *apperr.ConflictError
	if errors.As(wrapped, &cf) {
		t.Fatal("errors.As should NOT find ConflictError in plain error chain")
	}
}

func TestConflictAndNotFoundMessages(t *testing.T) {
	if apperr.NewConflict("Article already bookmarked").Error() != "Article already bookmarked" {
		t.Error("conflict message mismatch")
	}
	if apperr.NewNotFound("Bookmark not found").Error() != "Bookmark not found" {
		t.Error("not found message mismatch")
	}
}
