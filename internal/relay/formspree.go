package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/primer-realty/internal/observability/metrics"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

var tracer = otel.Tracer("primer.internal.relay")

// FormspreeClient posts forms to a Formspree-style endpoint.
type FormspreeClient struct {
	endpoint string
	client   *http.Client
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// FormspreeConfig configures FormspreeClient.
type FormspreeConfig struct {
	Endpoint string
	Timeout  time.Duration
	Client   *http.Client
}

func NewFormspreeClient(cfg FormspreeConfig, m *metrics.BookingMetrics, logger *logging.Logger) *FormspreeClient {
	if logger == nil {
		logger = logging.Default()
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &FormspreeClient{endpoint: cfg.Endpoint, client: client, metrics: m, logger: logger}
}

// Submit performs a single POST. Transport errors and non-2xx answers are
// failures; there are no retries.
func (c *FormspreeClient) Submit(ctx context.Context, form *Form) error {
	if c.endpoint == "" {
		return ErrNotConfigured
	}
	ctx, span := tracer.Start(ctx, "relay.formspree.submit", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("primer.relay.form", form.Kind))

	start := time.Now()
	err := c.post(ctx, form)
	status := "success"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("form relay submission failed", "kind", form.Kind, "error", err)
	}
	c.metrics.ObserveSubmission(form.Kind, status, time.Since(start))
	return err
}

func (c *FormspreeClient) post(ctx context.Context, form *Form) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay: post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
