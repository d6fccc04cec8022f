package newsletter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/notify"
	"github.com/wolfman30/primer-realty/internal/validation"
	"github.com/wolfman30/primer-realty/internal/visitor"
)

type failingSender struct{}

func (failingSender) Send(context.Context, notify.EmailMessage) error {
	return errors.New("smtp down")
}

func TestSubscribe(t *testing.T) {
	ctx := visitor.WithID(context.Background(), "v1")
	sender := notify.NewStubEmailSender(nil)
	svc := NewService(kvstore.NewMemoryStore(), sender, nil)

	_, err := svc.Subscribe(ctx, "not-an-email")
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	already, err := svc.Subscribe(ctx, " jane@example.com ")
	require.NoError(t, err)
	assert.False(t, already)
	require.Len(t, sender.Sent(), 1)
	assert.Equal(t, "jane@example.com", sender.Sent()[0].To)

	already, err = svc.Subscribe(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Len(t, sender.Sent(), 1)

	other := visitor.WithID(context.Background(), "v2")
	subscribed, err := svc.Subscribed(other)
	require.NoError(t, err)
	assert.False(t, subscribed)

	require.NoError(t, svc.Unsubscribe(ctx))
	subscribed, err = svc.Subscribed(ctx)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscribe_EmailFailureKeepsSignup(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kvstore.NewMemoryStore(), failingSender{}, nil)

	_, err := svc.Subscribe(ctx, "jane@example.com")
	require.NoError(t, err)
	subscribed, err := svc.Subscribed(ctx)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestHandler(t *testing.T) {
	h := NewHandler(NewService(kvstore.NewMemoryStore(), nil, nil), nil).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"bad"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"jane@example.com"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thank you for subscribing")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"subscribed":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
