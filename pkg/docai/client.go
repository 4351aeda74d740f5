package docai

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	gax "github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/critex/critex/pkg/config"
)

// rawProcessor is the slice of the Document AI client the submission loop
// needs, so tests can substitute a fake.
type rawProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// Client submits documents to a single Document AI processor.
type Client struct {
	raw       rawProcessor
	processor string // full processor resource name
	policy    RetryPolicy
	logger    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRetryPolicy replaces the default backoff policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New connects to the regional Document AI endpoint for the configured
// location, authenticating with the credentials file from the config.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)

	raw, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(endpoint),
		option.WithCredentialsFile(cfg.CredentialsPath),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}

	c := &Client{
		raw: raw,
		processor: fmt.Sprintf(
			"projects/%s/locations/%s/processors/%s",
			cfg.ProjectID, cfg.Location, cfg.ProcessorID,
		),
		policy: DefaultRetryPolicy(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.raw.Close()
}

// Process submits PDF bytes to the processor and converts the response.
// Quota and transient failures are retried per the client's policy; auth and
// format failures are returned immediately. The returned ServiceError always
// records how many attempts were made.
func (c *Client) Process(ctx context.Context, pdfBytes []byte) (*Result, error) {
	req := &documentaipb.ProcessRequest{
		Name: c.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		resp, err := c.raw.ProcessDocument(ctx, req)
		if err == nil {
			result := ResultFromProto(resp.Document)
			result.Processor = c.processor
			result.Attempts = attempt
			return result, nil
		}

		kind := Classify(err)
		lastErr = err
		if !Retryable(kind) {
			return nil, &ServiceError{Kind: kind, Attempts: attempt, Err: err}
		}
		if attempt == c.policy.MaxAttempts {
			return nil, &ServiceError{Kind: kind, Attempts: attempt, Err: err}
		}

		c.logger.Warn("document ai submission failed, retrying",
			zap.Int("attempt", attempt),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		if err := c.policy.pause(ctx, attempt); err != nil {
			return nil, &ServiceError{Kind: kind, Attempts: attempt, Err: err}
		}
	}
	// Unreachable with MaxAttempts >= 1, kept for a zero-attempt policy.
	return nil, &ServiceError{Kind: KindUnknown, Attempts: 0, Err: lastErr}
}
