//go:build integration

package s3_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/gateway"
	s3gateway "github.com/marmos91/triggerfish/pkg/gateway/s3"
)

// localstackHelper manages the Localstack container for gateway integration tests.
type localstackHelper struct {
	container testcontainers.Container
	endpoint  string
	client    *s3.Client
}

// newLocalstackHelper starts a Localstack container or connects to an existing one.
func newLocalstackHelper(t *testing.T) *localstackHelper {
	t.Helper()
	ctx := context.Background()

	// Check if external Localstack is configured via environment
	if endpoint := os.Getenv("LOCALSTACK_ENDPOINT"); endpoint != "" {
		helper := &localstackHelper{endpoint: endpoint}
		helper.createClient(t)
		return helper
	}

	// Start Localstack container using testcontainers
	req := testcontainers.ContainerRequest{
		Image:        "localstack/localstack:3.0",
		ExposedPorts: []string{"4566/tcp"},
		Env: map[string]string{
			"SERVICES":              "s3",
			"DEFAULT_REGION":        "us-east-1",
			"EAGER_SERVICE_LOADING": "1",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("4566/tcp"),
			wait.ForHTTP("/_localstack/health").
				WithPort("4566/tcp").
				WithStartupTimeout(60*time.Second),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start localstack container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "4566")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	helper := &localstackHelper{
		container: container,
		endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
	helper.createClient(t)

	return helper
}

// createClient creates an S3 client configured for Localstack.
func (lh *localstackHelper) createClient(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion("us-east-1"),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			"test", "test", "",
		)),
	)
	if err != nil {
		t.Fatalf("failed to load AWS config: %v", err)
	}

	lh.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(lh.endpoint)
		o.UsePathStyle = true
	})
}

// createBucket creates a bucket and registers cleanup.
func (lh *localstackHelper) createBucket(t *testing.T, name string) {
	t.Helper()
	ctx := context.Background()

	_, err := lh.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		t.Fatalf("failed to create bucket %s: %v", name, err)
	}
}

// putObject uploads an object with optional content type.
func (lh *localstackHelper) putObject(t *testing.T, bucket, key, body, contentType string) {
	t.Helper()
	ctx := context.Background()

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := lh.client.PutObject(ctx, input); err != nil {
		t.Fatalf("failed to put object %s/%s: %v", bucket, key, err)
	}
}

func TestS3Gateway_Integration(t *testing.T) {
	ctx := context.Background()
	helper := newLocalstackHelper(t)
	helper.createBucket(t, "media")

	gw, err := s3gateway.New(ctx, s3gateway.Config{
		Endpoint:        helper.endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		ForcePathStyle:  true,
		HealthBucket:    "media",
	}, nil)
	if err != nil {
		t.Fatalf("failed to create gateway: %v", err)
	}

	t.Run("HealthCheck", func(t *testing.T) {
		if err := gw.HealthCheck(ctx); err != nil {
			t.Fatalf("HealthCheck failed: %v", err)
		}
	})

	t.Run("ObjectMetadata", func(t *testing.T) {
		helper.putObject(t, "media", "photos/sunset.jpg", "fake jpeg bytes", "image/jpeg")

		attrs, err := gw.ObjectMetadata(ctx, event.ObjectRef{Bucket: "media", Key: "photos/sunset.jpg"})
		if err != nil {
			t.Fatalf("ObjectMetadata failed: %v", err)
		}

		if attrs["content-type"] != "image/jpeg" {
			t.Errorf("content-type = %q, want image/jpeg", attrs["content-type"])
		}
		if attrs["content-length"] != "15" {
			t.Errorf("content-length = %q, want 15", attrs["content-length"])
		}
		if attrs["etag"] == "" {
			t.Error("etag should not be empty")
		}
	})

	t.Run("ObjectMetadataNotFound", func(t *testing.T) {
		_, err := gw.ObjectMetadata(ctx, event.ObjectRef{Bucket: "media", Key: "does/not/exist"})
		if err == nil {
			t.Fatal("expected an error for a missing object")
		}
		if !gateway.IsNotFound(err) {
			t.Errorf("expected a not-found error, got %v", err)
		}
	})

	t.Run("Warm", func(t *testing.T) {
		body := strings.Repeat("x", 4096)
		helper.putObject(t, "media", "warm/payload.bin", body, "application/octet-stream")

		n, err := gw.Warm(ctx, event.ObjectRef{Bucket: "media", Key: "warm/payload.bin"}, 0)
		if err != nil {
			t.Fatalf("Warm failed: %v", err)
		}
		if n != int64(len(body)) {
			t.Errorf("warmed %d bytes, want %d", n, len(body))
		}
	})

	t.Run("WarmBounded", func(t *testing.T) {
		body := strings.Repeat("y", 8192)
		helper.putObject(t, "media", "warm/large.bin", body, "application/octet-stream")

		n, err := gw.Warm(ctx, event.ObjectRef{Bucket: "media", Key: "warm/large.bin"}, 1024)
		if err != nil {
			t.Fatalf("Warm failed: %v", err)
		}
		if n > 1024 {
			t.Errorf("warmed %d bytes, want at most 1024", n)
		}
	})

	t.Run("WarmNotFound", func(t *testing.T) {
		_, err := gw.Warm(ctx, event.ObjectRef{Bucket: "media", Key: "warm/missing.bin"}, 0)
		if err == nil {
			t.Fatal("expected an error for a missing object")
		}
		if !gateway.IsNotFound(err) {
			t.Errorf("expected a not-found error, got %v", err)
		}
	})
}
