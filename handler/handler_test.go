package handler_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/validator"
)

type createRequest struct {
	UserID         string `json:"userId"`
	SubscriptionID string `json:"subscriptionId"`
}

type listRequest struct {
	Status string  `query:"status"`
	Limit  int     `query:"limit"`
	Offset *uint64 `query:"offset"`
	Admin  bool    `query:"admin"`
	Ignore string  `query:"-"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorBody {
	t.Helper()
	var body handler.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWrap_JSONBinding(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		func(ctx handler.Context, req createRequest) handler.Response {
			return handler.JSON(map[string]string{"userId": req.UserID, "subscriptionId": req.SubscriptionID},
				handler.WithStatus(http.StatusCreated))
		},
		handler.WithBinders[handler.Context, createRequest](handler.BindJSON()),
	)

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"u1","subscriptionId":"sub_1"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		h(rec, r)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"userId":"u1","subscriptionId":"sub_1"}`, rec.Body.String())
	})

	t.Run("empty body leaves zero value", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"userId":"","subscriptionId":""}`, rec.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", decodeError(t, rec).Code)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`a=b`))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h(rec, r)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestWrap_QueryBinding(t *testing.T) {
	t.Parallel()

	var got listRequest
	h := handler.Wrap(
		func(ctx handler.Context, req listRequest) handler.Response {
			got = req
			return handler.Empty()
		},
		handler.WithBinders[handler.Context, listRequest](handler.BindQuery()),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?status=active&limit=20&offset=40&admin=true&Ignore=x", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, 20, got.Limit)
	require.NotNil(t, got.Offset)
	assert.Equal(t, uint64(40), *got.Offset)
	assert.True(t, got.Admin)
	assert.Empty(t, got.Ignore)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?limit=lots", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrap_ErrorsAndDecorators(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) handler.Decorator[handler.Context, struct{}] {
		return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(
		func(ctx handler.Context, _ struct{}) handler.Response {
			return handler.Error(handler.ErrForbidden.WithMessage("Active subscription required"))
		},
		handler.WithDecorators(trace("outer"), trace("inner")),
		handler.WithErrorHandler[handler.Context, struct{}](handler.NewErrorHandler(logger.Discard())),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/videos", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, handler.ErrorBody{Error: "Active subscription required", Code: "forbidden"}, decodeError(t, rec))
}

func TestWrap_NilResponse(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response { return nil })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorHandler_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		body   handler.ErrorBody
	}{
		{
			name:   "http error with message",
			err:    fmt.Errorf("checkout: %w", handler.ErrNotFound.WithMessage("User not found")),
			status: http.StatusNotFound,
			body:   handler.ErrorBody{Error: "User not found", Code: "not_found"},
		},
		{
			name:   "http error without message",
			err:    handler.ErrUnauthorized,
			status: http.StatusUnauthorized,
			body:   handler.ErrorBody{Error: "Unauthorized", Code: "unauthorized"},
		},
		{
			name:   "validation",
			err:    validator.Apply(validator.RequiredString("url", "")),
			status: http.StatusBadRequest,
			body:   handler.ErrorBody{Error: "url: field is required", Code: "validation_error", Fields: map[string]string{"url": "field is required"}},
		},
		{
			name:   "unknown error hides details",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			body:   handler.ErrorBody{Error: "Internal server error", Code: "internal_server_error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			handler.NewErrorHandler(logger.Discard())(handler.NewContext(rec, r), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, decodeError(t, rec))
		})
	}
}

func TestHTTPError_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrap: %w", handler.ErrNotFound.WithMessage("User not found"))
	assert.ErrorIs(t, err, handler.ErrNotFound)
	assert.NotErrorIs(t, err, handler.ErrForbidden)
	assert.Equal(t, "User not found", handler.ErrNotFound.WithMessage("User not found").Error())
	assert.Equal(t, "not_found", handler.ErrNotFound.Error())
}
