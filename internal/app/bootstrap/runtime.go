package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/primer-realty/internal/config"
	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// KV is the selected key-value backend plus what it needs torn down.
type KV struct {
	Store   kvstore.Store
	Backend string
	Check   func(context.Context) error
	Close   func()
}

// BuildKVStore selects the visitor-state backend named by KV_BACKEND. An
// unreachable Redis falls back to memory; other backends fail hard.
func BuildKVStore(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*KV, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}
	switch cfg.KVBackend {
	case "", "memory":
		return &KV{Store: kvstore.NewMemoryStore(), Backend: "memory", Close: noop}, nil

	case "redis":
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			logger.Warn("falling back to in-memory visitor state")
			return &KV{Store: kvstore.NewMemoryStore(), Backend: "memory", Close: noop}, nil
		}
		return &KV{
			Store:   kvstore.NewRedisStore(client, 0),
			Backend: "redis",
			Check:   func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:   func() { _ = client.Close() },
		}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: postgres pool: %w", err)
		}
		return &KV{
			Store:   kvstore.NewPostgresStore(pool),
			Backend: "postgres",
			Check:   pool.Ping,
			Close:   pool.Close,
		}, nil

	case "dynamodb":
		if awsCfg == nil {
			return nil, fmt.Errorf("bootstrap: dynamodb backend needs AWS config")
		}
		client := dynamodb.NewFromConfig(*awsCfg)
		table := cfg.KVTable
		return &KV{
			Store:   kvstore.NewDynamoStore(client, table),
			Backend: "dynamodb",
			Check: func(ctx context.Context) error {
				_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
				return err
			},
			Close: noop,
		}, nil
	}
	return nil, fmt.Errorf("bootstrap: unknown KV_BACKEND %q", cfg.KVBackend)
}

// OpenDatabase opens the submission-log database over pgx's database/sql
// driver. It returns nil when DATABASE_URL is unset.
func OpenDatabase(ctx context.Context, databaseURL string, logger *logging.Logger) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: ping db: %w", err)
	}
	if logger != nil {
		logger.Info("database connected")
	}
	return db, nil
}
