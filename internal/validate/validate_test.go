package validate_test

import (
	"errors"
	"testing"

	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Valid(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "correct-horse",
		Name:     "Reader",
	}

	assert.NoError(t, validate.Struct(&req))
}

func TestStruct_CollectsFieldDetails(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
	}

	err := validate.Struct(&req)
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Details, 3)

	fields := make(map[string]string, len(ve.Details))
	for _, d := range ve.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 8 characters", fields["password"])
	assert.Equal(t, "is required", fields["name"])
}

func TestStruct_OneOf(t *testing.T) {
	req := dto.ReactionRequest{Type: "ANGRY"}

	err := validate.Struct(&req)
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Details, 1)
	assert.Contains(t, ve.Details[0].Message, "must be one of")
}
