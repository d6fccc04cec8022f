package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProperties = `{"properties":[
 {"id":1,"title":"Loft","price":100000,"type":"sale","propertyType":"apartment","bedrooms":1,"bathrooms":1,"listedDate":"2024-01-05"},
 {"id":2,"title":"Villa","price":500000,"type":"sale","propertyType":"house","bedrooms":4,"bathrooms":3}
]}`

type record struct {
	ID    int     `json:"id"`
	Price float64 `json:"price"`
}

func decodeRecords(data []byte) ([]record, error) {
	var doc struct {
		Properties []record `json:"properties"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Properties, nil
}

type staticSource struct {
	data []byte
	err  error
}

func (s *staticSource) Fetch(context.Context) ([]byte, error) { return s.data, s.err }
func (s *staticSource) String() string                        { return "static" }

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveFixtureLoad(_ string, outcome string, _ time.Duration) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.json")
	require.NoError(t, os.WriteFile(path, []byte(validProperties), 0o600))

	data, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, validProperties, string(data))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(validProperties))
	}))
	defer srv.Close()

	data, err := NewHTTPSource(srv.URL+"/data/properties.json", time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Villa")

	_, err = NewHTTPSource(srv.URL+"/broken", time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

type mockS3 struct {
	objects map[string][]byte
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Source(t *testing.T) {
	client := &mockS3{objects: map[string][]byte{"fixtures/data/properties.json": []byte(validProperties)}}

	src := NewS3Source(client, "fixtures", "data/properties.json")
	assert.Equal(t, "s3://fixtures/data/properties.json", src.String())
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Loft")

	_, err = NewS3Source(client, "fixtures", "other.json").Fetch(context.Background())
	assert.Error(t, err)
}

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	require.NoError(t, v.Validate(SchemaProperties, []byte(validProperties)))

	err = v.Validate(SchemaProperties, []byte(`{"properties":[{"id":1,"title":"x","price":1,"type":"lease","propertyType":"house","bedrooms":1,"bathrooms":1}]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	err = v.Validate(SchemaProperties, []byte(`{"listings":[]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	err = v.Validate(SchemaProperties, []byte(`{not json`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidDocument)

	require.NoError(t, v.Validate(SchemaBlog, []byte(`{"posts":[{"id":1,"title":"Hello","category":"Market Trends","date":"2024-03-01","views":10}]}`)))
	assert.ErrorIs(t, v.Validate(SchemaBlog, []byte(`{"posts":[{"id":1}]}`)), ErrInvalidDocument)

	assert.Error(t, v.Validate("agents", []byte(`{}`)))
}

func TestCollection_ReloadKeepsPreviousOnFailure(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	src := &staticSource{data: []byte(validProperties)}
	obs := &recordingObserver{}

	c := NewCollection(Options[record]{
		Name:      "properties",
		Source:    src,
		Validator: v,
		Schema:    SchemaProperties,
		Decode:    decodeRecords,
		Observer:  obs,
	})
	assert.Empty(t, c.Items())

	n, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, c.LoadedAt().IsZero())

	src.data, src.err = nil, errors.New("connection refused")
	_, err = c.Reload(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.True(t, IsRetryable(err))
	assert.Len(t, c.Items(), 2)

	src.data, src.err = []byte(`{"properties":[{"id":"x"}]}`), nil
	_, err = c.Reload(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Len(t, c.Items(), 2)

	assert.Equal(t, []string{"success", "error", "error"}, obs.outcomes)
}

type gatedSource struct {
	calls   chan struct{}
	release chan struct{}
	data    []byte
}

func (g *gatedSource) Fetch(ctx context.Context) ([]byte, error) {
	g.calls <- struct{}{}
	select {
	case <-g.release:
		return g.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedSource) String() string { return "gated" }

type switchSource struct {
	mu      sync.Mutex
	current Source
}

func (s *switchSource) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	src := s.current
	s.mu.Unlock()
	return src.Fetch(ctx)
}

func (s *switchSource) String() string { return "switch" }

func TestCollection_LastRequestWins(t *testing.T) {
	slow := &gatedSource{
		calls:   make(chan struct{}, 1),
		release: make(chan struct{}),
		data:    []byte(`{"properties":[{"id":9,"price":1}]}`),
	}
	src := &switchSource{current: slow}
	c := NewCollection(Options[record]{Name: "properties", Source: src, Decode: decodeRecords})

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Reload(context.Background())
		errCh <- err
	}()
	<-slow.calls

	src.mu.Lock()
	src.current = &staticSource{data: []byte(validProperties)}
	src.mu.Unlock()

	n, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	close(slow.release)
	assert.ErrorIs(t, <-errCh, ErrStale)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
}

func TestLatest(t *testing.T) {
	var l Latest
	first := l.Begin()
	second := l.Begin()
	assert.True(t, l.Commit(second))
	assert.False(t, l.Commit(first))

	third := l.Begin()
	fourth := l.Begin()
	assert.True(t, l.Commit(third), "an unapplied newer token does not supersede")
	assert.True(t, l.Commit(fourth))
}

func TestCollection_FailedNewerReloadKeepsOlderResult(t *testing.T) {
	slow := &gatedSource{
		calls:   make(chan struct{}, 1),
		release: make(chan struct{}),
		data:    []byte(`{"properties":[{"id":9,"price":1}]}`),
	}
	src := &switchSource{current: slow}
	c := NewCollection(Options[record]{Name: "properties", Source: src, Decode: decodeRecords})

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Reload(context.Background())
		errCh <- err
	}()
	<-slow.calls

	src.mu.Lock()
	src.current = &staticSource{err: errors.New("connection refused")}
	src.mu.Unlock()

	_, err := c.Reload(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)

	close(slow.release)
	require.NoError(t, <-errCh)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].ID)
}

func TestStaticCollection(t *testing.T) {
	c := NewStaticCollection("posts", []record{{ID: 1}})
	n, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, c.Items(), 1)
}
