// Package s3 implements the platform gateway against Amazon S3 and
// S3-compatible object gateways.
//
// Object access is intentionally shallow: the controller runtime only needs
// object metadata (HeadObject), cache warming (GetObject with the payload
// discarded) and a connectivity probe (HeadBucket). Payload bytes never leave
// this package.
package s3

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"
	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/gateway"
)

// DefaultConnectTimeout bounds the startup connectivity probe.
const DefaultConnectTimeout = 30 * time.Second

// S3Metrics collects gateway operation metrics.
//
// A nil S3Metrics disables recording with zero overhead.
type S3Metrics interface {
	// ObserveOperation records an S3 operation with its duration and outcome.
	ObserveOperation(operation string, duration time.Duration, err error)

	// RecordBytes records bytes pulled through the gateway.
	RecordBytes(operation string, bytes int64)
}

// Config configures the S3 gateway client.
type Config struct {
	// Endpoint overrides the AWS endpoint for S3-compatible gateways.
	// Empty uses the standard AWS endpoint resolution.
	Endpoint string

	// Region is the AWS region. On-prem gateways usually accept any value.
	Region string

	// AccessKeyID and SecretAccessKey select static credentials. Leave both
	// empty to use the ambient AWS credential chain (env, profile, IRSA).
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle addresses buckets as path segments instead of virtual
	// hosts. Required by most on-prem gateways.
	ForcePathStyle bool

	// HealthBucket is probed at startup and by HealthCheck. Empty disables
	// both probes.
	HealthBucket string

	// ConnectTimeout bounds the startup probe. Zero uses
	// DefaultConnectTimeout.
	ConnectTimeout time.Duration
}

// Client is the S3-backed platform gateway.
//
// Safe for concurrent use; the underlying SDK client maintains its own
// connection pool.
type Client struct {
	client  *s3.Client
	metrics S3Metrics
	health  string
}

var _ gateway.Gateway = (*Client)(nil)

// New creates a gateway client and, when a health bucket is configured,
// verifies connectivity before returning. Transient probe failures are
// retried with exponential backoff until the connect timeout expires, so a
// gateway that is still coming up does not fail startup.
func New(ctx context.Context, cfg Config, metrics S3Metrics) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"", // session token (empty for static credentials)
			)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sdk := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	c := &Client{
		client:  sdk,
		metrics: metrics,
		health:  cfg.HealthBucket,
	}

	if cfg.HealthBucket != "" {
		if err := c.probe(ctx, cfg); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewFromClient wraps an already configured SDK client. Used by tests and by
// callers that need custom SDK middleware.
func NewFromClient(sdk *s3.Client, healthBucket string, metrics S3Metrics) *Client {
	return &Client{client: sdk, metrics: metrics, health: healthBucket}
}

// probe verifies gateway connectivity with exponential backoff.
func (c *Client) probe(ctx context.Context, cfg Config) error {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	bk := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(timeout),
	)

	attempt := 0
	operation := func() error {
		attempt++
		_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(cfg.HealthBucket),
		})
		if err == nil {
			return nil
		}
		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		logger.Warn("Gateway not reachable yet, retrying",
			"bucket", cfg.HealthBucket,
			"attempt", attempt,
			"error", err)
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(bk, ctx)); err != nil {
		return fmt.Errorf("failed to reach gateway bucket %q: %w", cfg.HealthBucket, err)
	}

	logger.Info("Gateway connectivity verified",
		"bucket", cfg.HealthBucket,
		"endpoint", cfg.Endpoint)
	return nil
}

// ObjectMetadata returns the user metadata attached to an object.
//
// S3 strips the x-amz-meta- prefix and lowercases user metadata keys on the
// wire; the returned map is normalized to lowercase attribute names so
// lookups behave identically against AWS and on-prem gateways.
func (c *Client) ObjectMetadata(ctx context.Context, ref event.ObjectRef) (attrs map[string]string, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveOperation("HeadObject", time.Since(start), err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	out, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, gateway.NewNotFoundError(ref)
		}
		return nil, fmt.Errorf("failed to head object %s: %w", ref, err)
	}

	// Standard headers first, then user metadata. User metadata with a
	// colliding name wins so custom attributes stay addressable.
	attrs = make(map[string]string, len(out.Metadata)+4)
	if out.ContentType != nil {
		attrs["content-type"] = *out.ContentType
	}
	if out.ContentLength != nil {
		attrs["content-length"] = strconv.FormatInt(*out.ContentLength, 10)
	}
	if out.ETag != nil {
		attrs["etag"] = strings.Trim(*out.ETag, `"`)
	}
	if out.LastModified != nil {
		attrs["last-modified"] = out.LastModified.UTC().Format(time.RFC3339)
	}
	for k, v := range out.Metadata {
		attrs[strings.ToLower(k)] = v
	}
	return attrs, nil
}

// Warm reads an object through the platform cache tiers, discarding the
// payload. A maxBytes > 0 limits the read to the leading bytes of the object
// via a range request. Returns the number of bytes pulled.
func (c *Client) Warm(ctx context.Context, ref event.ObjectRef, maxBytes int64) (n int64, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveOperation("GetObject", time.Since(start), err)
			if n > 0 {
				c.metrics.RecordBytes("warm", n)
			}
		}
	}()

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	}
	if maxBytes > 0 {
		// S3 ranges are inclusive: "bytes=0-(maxBytes-1)"
		input.Range = aws.String(fmt.Sprintf("bytes=0-%d", maxBytes-1))
	}

	out, err := c.client.GetObject(ctx, input)
	if err != nil {
		if isNotFoundError(err) {
			return 0, gateway.NewNotFoundError(ref)
		}
		return 0, fmt.Errorf("failed to get object %s: %w", ref, err)
	}
	defer func() { _ = out.Body.Close() }()

	n, err = io.Copy(io.Discard, out.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read object %s: %w", ref, err)
	}

	return n, nil
}

// HealthCheck verifies the gateway answers bucket requests.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.health == "" {
		return nil
	}

	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.health),
	})
	if err != nil {
		return fmt.Errorf("gateway health check failed: %w", err)
	}
	return nil
}
