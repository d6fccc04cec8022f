package fixtures

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxDocumentBytes caps how much of a fixture document is read.
const maxDocumentBytes = 16 << 20

// Source fetches a raw fixture document. Fetches are single-shot.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads a document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", s.Path, err)
	}
	return data, nil
}

func (s FileSource) String() string { return "file://" + s.Path }

// HTTPSource GETs a document from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource builds an HTTPSource with its own client timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fixtures: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fixtures: get %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fixtures: get %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("fixtures: read body: %w", err)
	}
	return data, nil
}

func (s *HTTPSource) String() string { return s.URL }

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a document from an S3 bucket.
type S3Source struct {
	client S3API
	bucket string
	key    string
}

// NewS3Source creates a source for s3://bucket/key.
func NewS3Source(client S3API, bucket, key string) *S3Source {
	if client == nil {
		panic("fixtures: s3 client cannot be nil")
	}
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("fixtures: s3 get %s: %w", s.String(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("fixtures: s3 read %s: %w", s.String(), err)
	}
	return data, nil
}

func (s *S3Source) String() string { return fmt.Sprintf("s3://%s/%s", s.bucket, s.key) }
