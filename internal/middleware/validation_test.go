package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/shared/testutil"
)

func newValidator(t *testing.T) *QueryParamValidator {
	logger, _ := testutil.NewTestLogger(t)
	return NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))
}

func TestQueryParamValidator_ValidateInt(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name     string
		query    string
		want     int
		wantOK   bool
		wantCode int
	}{
		{"default", "", 7, true, http.StatusOK},
		{"in range", "?limit=5", 5, true, http.StatusOK},
		{"not a number", "?limit=five", 0, false, http.StatusBadRequest},
		{"below min", "?limit=-1", 0, false, http.StatusBadRequest},
		{"above max", "?limit=1000", 0, false, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			got, ok := v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/api/tables"+tt.query, nil), "limit", 0, 100, 7)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestQueryParamValidator_ValidateBool(t *testing.T) {
	v := newValidator(t)

	rec := httptest.NewRecorder()
	got, ok := v.ValidateBool(rec, httptest.NewRequest(http.MethodGet, "/?keep_overall=false", nil), "keep_overall", true)
	assert.True(t, ok)
	assert.False(t, got)

	rec = httptest.NewRecorder()
	_, ok = v.ValidateBool(rec, httptest.NewRequest(http.MethodGet, "/?keep_overall=maybe", nil), "keep_overall", true)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	v := newValidator(t)
	allowed := []string{"json", "csv"}

	rec := httptest.NewRecorder()
	got, ok := v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/", nil), "format", allowed, "json")
	assert.True(t, ok)
	assert.Equal(t, "json", got)

	rec = httptest.NewRecorder()
	got, ok = v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/?format=csv", nil), "format", allowed, "json")
	assert.True(t, ok)
	assert.Equal(t, "csv", got)

	rec = httptest.NewRecorder()
	_, ok = v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/?format=xml", nil), "format", allowed, "json")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
