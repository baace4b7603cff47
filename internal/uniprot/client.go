// Package uniprot fetches protein sequences from the UniProt REST API.
package uniprot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// ErrNotFound marks a definitive miss: the identifier does not exist in the
// repository. Callers must not retry it.
var ErrNotFound = errors.New("protein sequence not found")

const defaultBaseURL = "https://rest.uniprot.org/uniprotkb"

// SequenceSource returns the amino-acid sequence for a protein identifier.
type SequenceSource interface {
	FetchSequence(ctx context.Context, id string) (string, error)
}

// Client fetches sequences over HTTP with a bounded timeout and a single
// retry for transient failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     *zap.Logger
}

// NewClient creates a UniProt client with a 30 second request timeout.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 1,
		logger:     zap.NewNop(),
	}
}

// SetBaseURL overrides the repository endpoint (used in tests).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetLogger sets the logger for retry messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// FetchSequence retrieves the amino-acid sequence for the given identifier.
// A missing identifier returns ErrNotFound immediately; transient failures
// (network errors, 5xx) are retried once with a short backoff.
func (c *Client) FetchSequence(ctx context.Context, id string) (string, error) {
	url := fmt.Sprintf("%s/%s.fasta", c.baseURL, id)

	var seq string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("sequence fetch failed, will retry",
				zap.String("protein_id", id), zap.Error(err))
			return fmt.Errorf("fetch sequence: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read sequence response: %w", err)
			}
			seq = parseFASTA(string(body))
			if seq == "" {
				return backoff.Permanent(fmt.Errorf("%w: %s (empty record)", ErrNotFound, id))
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, id))
		case resp.StatusCode >= 500:
			c.logger.Warn("sequence repository error, will retry",
				zap.String("protein_id", id), zap.Int("status", resp.StatusCode))
			return fmt.Errorf("fetch sequence: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("fetch sequence: status %d", resp.StatusCode))
		}
	}

	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), c.maxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return seq, nil
}

// parseFASTA joins the sequence lines of a FASTA record, skipping headers.
func parseFASTA(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
