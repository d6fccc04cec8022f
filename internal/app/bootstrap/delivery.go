package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/primer-realty/internal/config"
	"github.com/wolfman30/primer-realty/internal/notify"
	"github.com/wolfman30/primer-realty/internal/observability/metrics"
	"github.com/wolfman30/primer-realty/internal/relay"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// BuildEmailSender picks the provider named by EMAIL_PROVIDER. A provider
// missing its credentials degrades to the stub with a warning.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "", "stub":
		return notify.NewStubEmailSender(logger), nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set; emails will only be logged")
			return notify.NewStubEmailSender(logger), nil
		}
		return sender, nil
	case "ses":
		if awsCfg == nil || cfg.SESFromEmail == "" {
			logger.Warn("SES not configured; emails will only be logged")
			return notify.NewStubEmailSender(logger), nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger), nil
	}
	return nil, fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
}

// BuildRelay picks the form relay named by RELAY_MODE.
func BuildRelay(cfg *appconfig.Config, sender notify.EmailSender, m *metrics.BookingMetrics, logger *logging.Logger) (relay.Relay, error) {
	switch cfg.RelayMode {
	case "", "stub":
		return relay.NewStub(logger), nil
	case "formspree", "http":
		if cfg.RelayEndpoint == "" {
			return nil, fmt.Errorf("bootstrap: RELAY_ENDPOINT is required for relay mode %q", cfg.RelayMode)
		}
		return relay.NewFormspreeClient(relay.FormspreeConfig{
			Endpoint: cfg.RelayEndpoint,
			Timeout:  cfg.RelayTimeout,
		}, m, logger), nil
	case "email":
		if cfg.RelayEmailTo == "" {
			return nil, fmt.Errorf("bootstrap: RELAY_EMAIL_TO is required for email relay")
		}
		return relay.NewEmailRelay(sender, cfg.RelayEmailTo), nil
	}
	return nil, fmt.Errorf("bootstrap: unknown RELAY_MODE %q", cfg.RelayMode)
}
