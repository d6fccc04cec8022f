package bootstrap

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	appconfig "github.com/wolfman30/primer-realty/internal/config"
	"github.com/wolfman30/primer-realty/internal/fixtures"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// FixtureSources builds the property and blog sources named by
// FIXTURE_SOURCE. For S3, the fixture settings are object keys in
// FIXTURE_BUCKET.
func FixtureSources(cfg *appconfig.Config, awsCfg *aws.Config) (props, posts fixtures.Source, err error) {
	switch cfg.FixtureSource {
	case "", "file":
		return fixtures.FileSource{Path: cfg.PropertiesFixture}, fixtures.FileSource{Path: cfg.BlogFixture}, nil
	case "http":
		return fixtures.NewHTTPSource(cfg.PropertiesFixture, cfg.RelayTimeout),
			fixtures.NewHTTPSource(cfg.BlogFixture, cfg.RelayTimeout), nil
	case "s3":
		if awsCfg == nil {
			return nil, nil, fmt.Errorf("bootstrap: s3 fixtures need AWS config")
		}
		if cfg.FixtureBucket == "" {
			return nil, nil, fmt.Errorf("bootstrap: FIXTURE_BUCKET is required for s3 fixtures")
		}
		client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		return fixtures.NewS3Source(client, cfg.FixtureBucket, path.Clean(cfg.PropertiesFixture)),
			fixtures.NewS3Source(client, cfg.FixtureBucket, path.Clean(cfg.BlogFixture)), nil
	}
	return nil, nil, fmt.Errorf("bootstrap: unknown FIXTURE_SOURCE %q", cfg.FixtureSource)
}

// Reloader is any fixture collection.
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

// LoadFixtures fetches every collection concurrently. Failures are logged
// and returned together; collections that loaded keep their data.
func LoadFixtures(ctx context.Context, logger *logging.Logger, colls map[string]Reloader) error {
	if logger == nil {
		logger = logging.Default()
	}
	// One bad document must not cancel the others.
	var g errgroup.Group
	for name, c := range colls {
		name, c := name, c
		g.Go(func() error {
			n, err := c.Reload(ctx)
			if err != nil {
				logger.Error("initial fixture load failed", "collection", name, "error", err)
				return fmt.Errorf("bootstrap: load %s: %w", name, err)
			}
			logger.Info("initial fixture load", "collection", name, "count", n)
			return nil
		})
	}
	return g.Wait()
}
