package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/primer-realty/internal/catalog"
	appconfig "github.com/wolfman30/primer-realty/internal/config"
	"github.com/wolfman30/primer-realty/internal/fixtures"
	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/notify"
	"github.com/wolfman30/primer-realty/internal/relay"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

const propertiesDoc = `{"properties":[
 {"id":1,"title":"Harbor View","city":"Austin","state":"TX","price":450000,"type":"sale","propertyType":"house","bedrooms":3,"bathrooms":2},
 {"id":2,"title":"Downtown Loft","city":"Austin","state":"TX","price":2400,"type":"rent","propertyType":"apartment","bedrooms":1,"bathrooms":1}
]}`

const blogDoc = `{"posts":[{"id":1,"title":"Staging tips","category":"Home Tips","date":"2025-01-02"}]}`

func writeFixtures(t *testing.T, props, posts string) *appconfig.Config {
	t.Helper()
	dir := t.TempDir()
	propPath := filepath.Join(dir, "properties.json")
	blogPath := filepath.Join(dir, "blog.json")
	require.NoError(t, os.WriteFile(propPath, []byte(props), 0o600))
	require.NoError(t, os.WriteFile(blogPath, []byte(posts), 0o600))
	return &appconfig.Config{
		Env:               "test",
		MetricsEnabled:    true,
		FixtureSource:     "file",
		PropertiesFixture: propPath,
		BlogFixture:       blogPath,
		KVBackend:         "memory",
		RelayMode:         "stub",
		EmailProvider:     "stub",
		RateLimitRPS:      100,
		RateLimitBurst:    100,
	}
}

func TestBuildKVStoreMemory(t *testing.T) {
	kv, err := BuildKVStore(context.Background(), &appconfig.Config{KVBackend: "memory"}, nil, logging.Default())
	require.NoError(t, err)
	assert.Equal(t, "memory", kv.Backend)
	assert.IsType(t, &kvstore.MemoryStore{}, kv.Store)
	assert.Nil(t, kv.Check)
}

func TestBuildKVStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, err := BuildKVStore(context.Background(), &appconfig.Config{KVBackend: "redis", RedisAddr: mr.Addr()}, nil, logging.Default())
	require.NoError(t, err)
	defer kv.Close()

	assert.Equal(t, "redis", kv.Backend)
	require.NotNil(t, kv.Check)
	assert.NoError(t, kv.Check(context.Background()))
}

func TestBuildKVStoreRedisFallsBackToMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	kv, err := BuildKVStore(context.Background(), &appconfig.Config{KVBackend: "redis", RedisAddr: addr}, nil, logging.Default())
	require.NoError(t, err)
	assert.Equal(t, "memory", kv.Backend)
}

func TestBuildKVStoreRejectsUnknownAndMissingAWS(t *testing.T) {
	_, err := BuildKVStore(context.Background(), &appconfig.Config{KVBackend: "etcd"}, nil, logging.Default())
	assert.Error(t, err)

	_, err = BuildKVStore(context.Background(), &appconfig.Config{KVBackend: "dynamodb"}, nil, logging.Default())
	assert.Error(t, err)
}

func TestBuildRedisClientDisabled(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logging.Default(), false))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, logging.Default(), false))
}

func TestOpenDatabaseSkipsWithoutURL(t *testing.T) {
	db, err := OpenDatabase(context.Background(), "  ", logging.Default())
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestFixtureSources(t *testing.T) {
	props, posts, err := FixtureSources(&appconfig.Config{FixtureSource: "file", PropertiesFixture: "a.json", BlogFixture: "b.json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, fixtures.FileSource{Path: "a.json"}, props)
	assert.Equal(t, fixtures.FileSource{Path: "b.json"}, posts)

	props, _, err = FixtureSources(&appconfig.Config{FixtureSource: "http", PropertiesFixture: "https://cdn.example/p.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &fixtures.HTTPSource{}, props)

	_, _, err = FixtureSources(&appconfig.Config{FixtureSource: "s3"}, nil)
	assert.Error(t, err)

	_, _, err = FixtureSources(&appconfig.Config{FixtureSource: "ftp"}, nil)
	assert.Error(t, err)
}

type failingReloader struct{}

func (failingReloader) Reload(context.Context) (int, error) { return 0, errors.New("boom") }

func TestLoadFixturesReportsFailures(t *testing.T) {
	ok := fixtures.NewStaticCollection("properties", []catalog.Property{{ID: 1}})
	err := LoadFixtures(context.Background(), logging.Default(), map[string]Reloader{"properties": ok})
	assert.NoError(t, err)

	err = LoadFixtures(context.Background(), logging.Default(), map[string]Reloader{
		"properties": ok,
		"blog":       failingReloader{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load blog")
}

func TestBuildEmailSender(t *testing.T) {
	logger := logging.Default()

	sender, err := BuildEmailSender(&appconfig.Config{EmailProvider: "stub"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender)

	sender, err = BuildEmailSender(&appconfig.Config{EmailProvider: "sendgrid"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender)

	sender, err = BuildEmailSender(&appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.key"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.SendGridSender{}, sender)

	sender, err = BuildEmailSender(&appconfig.Config{EmailProvider: "ses"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender)

	_, err = BuildEmailSender(&appconfig.Config{EmailProvider: "pigeon"}, nil, logger)
	assert.Error(t, err)
}

func TestBuildRelay(t *testing.T) {
	logger := logging.Default()
	sender := notify.NewStubEmailSender(logger)

	r, err := BuildRelay(&appconfig.Config{RelayMode: "stub"}, sender, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &relay.Stub{}, r)

	_, err = BuildRelay(&appconfig.Config{RelayMode: "formspree"}, sender, nil, logger)
	assert.Error(t, err)

	r, err = BuildRelay(&appconfig.Config{RelayMode: "formspree", RelayEndpoint: "https://formspree.io/f/abc"}, sender, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &relay.FormspreeClient{}, r)

	_, err = BuildRelay(&appconfig.Config{RelayMode: "email"}, sender, nil, logger)
	assert.Error(t, err)

	r, err = BuildRelay(&appconfig.Config{RelayMode: "email", RelayEmailTo: "desk@primer.example"}, sender, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &relay.EmailRelay{}, r)
}

func TestBuildServesLoadedCatalog(t *testing.T) {
	cfg := writeFixtures(t, propertiesDoc, blogDoc)
	app, err := Build(context.Background(), cfg, nil, logging.Default())
	require.NoError(t, err)
	defer app.Close()

	assert.Len(t, app.Properties.All(), 2)
	assert.Len(t, app.Posts.Items(), 1)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties?type=apartment", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 1, result.Total)

	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestBuildSurvivesInvalidFixtures(t *testing.T) {
	cfg := writeFixtures(t, `{"properties":[{"id":1}]}`, blogDoc)
	app, err := Build(context.Background(), cfg, nil, logging.Default())
	require.NoError(t, err)
	defer app.Close()

	assert.Empty(t, app.Properties.All())
	assert.Len(t, app.Posts.Items(), 1)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
