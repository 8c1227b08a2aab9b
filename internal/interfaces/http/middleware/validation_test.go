package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/goldbook/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type supplierForm struct {
		Name  string  `json:"name" binding:"required"`
		Email string  `json:"email" binding:"omitempty,email"`
		IDs   []int64 `json:"ids" binding:"required,min=1"`
	}

	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req supplierForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})

	t.Run("lists every rejected field by json name", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"email": "no-at-sign", "ids": []}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Equal(t, "req-7", resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", fields["name"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Contains(t, fields, "ids")
	})

	t.Run("malformed json keeps the decoder message", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"name": `))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Error.Details)
		assert.NotEqual(t, "Request validation failed", resp.Error.Message)
	})

	t.Run("valid input passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"name": "Y", "ids": [1]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type form struct {
		Required string  `validate:"required"`
		Min      string  `validate:"min=5"`
		Lines    []int64 `validate:"min=1"`
		OneOf    string  `validate:"oneof=sale purchase"`
		GT       int     `validate:"gt=0"`
	}

	err := validator.New().Struct(form{Min: "ab", Lines: []int64{}, OneOf: "gift"})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Must be at least 5 characters", got["Min"])
	assert.Equal(t, "Must contain at least 1 entries", got["Lines"])
	assert.Equal(t, "Must be one of: sale purchase", got["OneOf"])
	assert.Equal(t, "Must be greater than 0", got["GT"])
}
