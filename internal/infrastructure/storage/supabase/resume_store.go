// Package supabase implements the resume object store on Supabase Storage.
// Resumes are uploaded to a public bucket over the Storage HTTP API and
// served back through the bucket's public URL.
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/pkg/circuitbreaker"
	"github.com/placement-hub/campus-placement-portal/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// MaxResumeSize is the upload limit for a single resume.
const MaxResumeSize = 5 * 1024 * 1024

// ResumeStoreConfig contains configuration for the resume store.
type ResumeStoreConfig struct {
	// ProjectURL is the Supabase project URL, e.g. https://xyz.supabase.co
	ProjectURL string

	// ServiceKey is the service-role API key used for uploads.
	ServiceKey string

	// Bucket is the storage bucket name holding resumes.
	Bucket string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultResumeStoreConfig returns sensible defaults.
func DefaultResumeStoreConfig(projectURL, serviceKey string) ResumeStoreConfig {
	return ResumeStoreConfig{
		ProjectURL: projectURL,
		ServiceKey: serviceKey,
		Bucket:     "resumes",
		Timeout:    30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RESUME STORE
// ══════════════════════════════════════════════════════════════════════════════

// ResumeStore uploads and deletes resume PDFs in Supabase Storage.
// Uploads are wrapped in a retrier and a circuit breaker so a storage
// outage degrades into fast errors instead of piled-up requests.
type ResumeStore struct {
	config     ResumeStoreConfig
	httpClient *http.Client
	logger     *slog.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
}

// NewResumeStore creates a new ResumeStore.
func NewResumeStore(config ResumeStoreConfig) *ResumeStore {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	logger := config.Logger

	return &ResumeStore{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
		retrier: retry.New(
			retry.WithMaxAttempts(3),
			retry.WithInitialDelay(500*time.Millisecond),
			retry.WithMaxDelay(10*time.Second),
			retry.WithMultiplier(2.0),
			retry.WithJitter(0.2),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				logger.Warn("retrying resume upload",
					"attempt", attempt,
					"delay", delay,
					"error", err)
			}),
		),
		breaker: circuitbreaker.New(
			"supabase-storage",
			circuitbreaker.WithFailureThreshold(3),
			circuitbreaker.WithSuccessThreshold(2),
			circuitbreaker.WithTimeout(60*time.Second),
			circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
				logger.Warn("storage circuit state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String())
			}),
		),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// UPLOAD
// ══════════════════════════════════════════════════════════════════════════════

// Upload validates and stores a resume PDF under the given object key and
// returns its public URL. Re-uploads overwrite the existing object, so a
// student always has exactly one resume.
func (s *ResumeStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	if err := ValidateResume(content); err != nil {
		return "", err
	}

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.retrier.Do(ctx, func(ctx context.Context) error {
			return s.putObject(ctx, key, content)
		})
	})
	if err != nil {
		s.logger.Error("resume upload failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: %v", shared.ErrResumeUploadFailed, err)
	}

	publicURL := s.PublicURL(key)
	s.logger.Info("resume uploaded", "key", key, "size", len(content), "url", publicURL)
	return publicURL, nil
}

// putObject performs a single upload request against the Storage API.
func (s *ResumeStore) putObject(ctx context.Context, key string, content []byte) error {
	fullURL := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		strings.TrimSuffix(s.config.ProjectURL, "/"),
		url.PathEscape(s.config.Bucket),
		escapeObjectKey(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(content))
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+s.config.ServiceKey)
	req.Header.Set("Content-Type", "application/pdf")
	// Overwrite instead of failing when the key already exists.
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	reqErr := fmt.Errorf("storage api status %d: %s", resp.StatusCode, string(body))

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return retry.Retryable(reqErr)
	}
	return retry.Permanent(reqErr)
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE
// ══════════════════════════════════════════════════════════════════════════════

// Delete removes a resume object. Missing objects are not an error.
func (s *ResumeStore) Delete(ctx context.Context, key string) error {
	fullURL := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		strings.TrimSuffix(s.config.ProjectURL, "/"),
		url.PathEscape(s.config.Bucket),
		escapeObjectKey(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.ServiceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage api status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// URL AND VALIDATION HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// PublicURL returns the public URL an object is served from.
func (s *ResumeStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		strings.TrimSuffix(s.config.ProjectURL, "/"),
		url.PathEscape(s.config.Bucket),
		escapeObjectKey(key))
}

// IsHealthy checks if the storage bucket is reachable.
func (s *ResumeStore) IsHealthy(ctx context.Context) bool {
	fullURL := fmt.Sprintf("%s/storage/v1/bucket/%s",
		strings.TrimSuffix(s.config.ProjectURL, "/"),
		url.PathEscape(s.config.Bucket))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.config.ServiceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF")

// ValidateResume checks the upload constraints: PDF content, size limit,
// non-empty body.
func ValidateResume(content []byte) error {
	if len(content) == 0 {
		return shared.ErrResumeNotPDF
	}
	if len(content) > MaxResumeSize {
		return shared.ErrResumeTooLarge
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return shared.ErrResumeNotPDF
	}
	return nil
}

// escapeObjectKey escapes each path segment of an object key while
// keeping the separators, so keys like "CSE/1RV21CS001.pdf" stay nested.
func escapeObjectKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
