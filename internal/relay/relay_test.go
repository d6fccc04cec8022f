package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/primer-realty/internal/notify"
)

func sampleForm() *Form {
	return NewForm("booking").
		Add("_subject", "New Booking: PRIMER-000123").
		Add("booking_reference", "PRIMER-000123").
		Add("service_type", "Moving & Logistics").
		Add("_replyto", "jane@example.com")
}

func TestForm_EncodeKeepsOrder(t *testing.T) {
	f := sampleForm()
	assert.Equal(t,
		"_subject=New+Booking%3A+PRIMER-000123&booking_reference=PRIMER-000123&service_type=Moving+%26+Logistics&_replyto=jane%40example.com",
		f.Encode())
	assert.Equal(t, "PRIMER-000123", f.Get("booking_reference"))
	assert.Empty(t, f.Get("missing"))
	assert.Len(t, f.Fields(), 4)
}

func TestFormspreeClient_Success(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		got, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewFormspreeClient(FormspreeConfig{Endpoint: srv.URL, Timeout: time.Second}, nil, nil)
	require.NoError(t, c.Submit(context.Background(), sampleForm()))
	assert.Equal(t, "Moving & Logistics", got.Get("service_type"))
	assert.Equal(t, "jane@example.com", got.Get("_replyto"))
}

func TestFormspreeClient_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"form not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewFormspreeClient(FormspreeConfig{Endpoint: srv.URL}, nil, nil)
	err := c.Submit(context.Background(), sampleForm())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	closed := httptest.NewServer(http.NotFoundHandler())
	endpoint := closed.URL
	closed.Close()
	err = NewFormspreeClient(FormspreeConfig{Endpoint: endpoint}, nil, nil).Submit(context.Background(), sampleForm())
	assert.Error(t, err)

	err = NewFormspreeClient(FormspreeConfig{}, nil, nil).Submit(context.Background(), sampleForm())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type failingSender struct{}

func (failingSender) Send(context.Context, notify.EmailMessage) error { return errors.New("smtp down") }

func TestEmailRelay(t *testing.T) {
	stub := notify.NewStubEmailSender(nil)
	r := NewEmailRelay(stub, "owner@primer.example")
	require.NoError(t, r.Submit(context.Background(), sampleForm()))

	sent := stub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@primer.example", sent[0].To)
	assert.Equal(t, "New Booking: PRIMER-000123", sent[0].Subject)
	assert.Equal(t, "jane@example.com", sent[0].ReplyTo)

	require.NoError(t, r.Submit(context.Background(), NewForm("contact").Add("name", "Jane")))
	assert.Equal(t, "New contact submission", stub.Sent()[1].Subject)

	assert.Error(t, NewEmailRelay(failingSender{}, "x@y.co").Submit(context.Background(), sampleForm()))
	assert.ErrorIs(t, NewEmailRelay(stub, "").Submit(context.Background(), sampleForm()), ErrNotConfigured)
}

func TestStub(t *testing.T) {
	assert.NoError(t, NewStub(nil).Submit(context.Background(), sampleForm()))
}
