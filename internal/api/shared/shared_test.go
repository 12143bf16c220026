package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/service/auth"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	generated := SetTraceID(ctx, "")
	assert.Len(t, GetTraceID(generated), 36)
	assert.NotEqual(t, GetTraceID(generated), GetTraceID(SetTraceID(ctx, "")))

	assert.Equal(t, "given", GetTraceID(SetTraceID(ctx, "given")))
	assert.Empty(t, GetTraceID(context.WithValue(ctx, TraceIDKey, 123)))
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	_, ok := ClaimsFromContext(ctx)
	assert.False(t, ok)

	_, ok = ClaimsFromContext(WithClaims(ctx, &auth.Claims{}))
	assert.False(t, ok, "claims without an account are not an identity")

	claims, ok := ClaimsFromContext(WithClaims(ctx, &auth.Claims{Identity: auth.Identity{AccountID: "acct-1"}}))
	require.True(t, ok)
	assert.Equal(t, "acct-1", claims.AccountID)
}

type profile struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type selfChecking struct{ ok bool }

func (s selfChecking) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		errText string
	}{
		{name: "valid", body: `{"name":"Ada","email":"ada@example.com","extra":true}`},
		{name: "empty", body: ``, wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"name":`, errText: "decode request body"},
		{name: "trailing data", body: `{"name":"Ada"} {"name":"Bob"}`, errText: "single JSON object"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var p profile
			err := DecodeJSON(httptest.NewRecorder(), req, &p)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Ada", p.Name)
			}
		})
	}
}

func TestDecodeJSONTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var p profile
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, &p))
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&profile{Name: "Ada", Email: "ada@example.com"}))
	assert.Error(t, ValidateRequest(&profile{Name: "Ada", Email: "nope"}))
	assert.NoError(t, ValidateRequest(selfChecking{ok: true}))
	assert.EqualError(t, ValidateRequest(selfChecking{}), "not ok")
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req = req.WithContext(SetTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusNotFound, "Trip not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Trip not found","traceId":"trace-1"}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	log, buf := logger.NewCaptureLogger()
	cause := errors.New("insert failed: postgres://tourvisto:hunter22@db:5432/app")

	req := httptest.NewRequest(http.MethodPost, "/api/create-trip", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))

	t.Run("without details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to save trip. Please try again.", cause)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Failed to save trip. Please try again.", body.Error)
		assert.Empty(t, body.Details)
		assert.NotContains(t, rec.Body.String(), "hunter22")
	})

	t.Run("with details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to save trip. Please try again.", cause,
			WithDetails(cause))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Details, "insert failed")
		assert.NotContains(t, body.Details, "hunter22")
	})

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.NotContains(t, buf.String(), "hunter22")
}

func TestRespondWithErrorAndLogLevels(t *testing.T) {
	tests := []struct {
		status int
		opts   []ResponseOption
		want   string
	}{
		{http.StatusBadRequest, nil, "DEBUG"},
		{http.StatusTooManyRequests, nil, "WARN"},
		{http.StatusForbidden, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
		{http.StatusBadGateway, nil, "ERROR"},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			log, buf := logger.NewCaptureLogger()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))

			RespondWithErrorAndLog(httptest.NewRecorder(), req, tc.status, "msg", errors.New("cause"), tc.opts...)

			entries, err := buf.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.want, entries[0]["level"])
		})
	}
}
