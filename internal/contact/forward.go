// Package contact forwards contact-form submissions to a third-party
// form endpoint. This is the service's single outbound call; nothing is
// stored locally.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/siba2623/portfolio-assistant/internal/render"
)

// ErrDisabled is returned when no form endpoint is configured.
var ErrDisabled = errors.New("contact forwarding is not configured")

// ErrInvalid wraps all validation failures so callers can distinguish
// bad submissions from upstream trouble.
var ErrInvalid = errors.New("invalid submission")

const forwardTimeout = 10 * time.Second

// Submission is one contact-form entry.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate checks the submission after stripping any embedded markup.
// It returns the sanitized submission so callers forward exactly what
// was validated.
func (s Submission) Validate() (Submission, error) {
	s.Name = render.StripTags(s.Name)
	s.Email = render.StripTags(s.Email)
	s.Message = render.StripTags(s.Message)

	if s.Name == "" {
		return s, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if s.Message == "" {
		return s, fmt.Errorf("%w: message is required", ErrInvalid)
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return s, fmt.Errorf("%w: bad email address %q", ErrInvalid, s.Email)
	}
	return s, nil
}

// Forwarder posts submissions to the configured endpoint.
type Forwarder struct {
	endpoint string
	client   *http.Client
}

// NewForwarder creates a Forwarder. An empty endpoint disables
// forwarding; Forward then returns ErrDisabled. Pass nil for the
// default HTTP client.
func NewForwarder(endpoint string, client *http.Client) *Forwarder {
	if client == nil {
		client = &http.Client{Timeout: forwardTimeout}
	}
	return &Forwarder{endpoint: endpoint, client: client}
}

// Enabled reports whether an endpoint is configured.
func (f *Forwarder) Enabled() bool {
	return f.endpoint != ""
}

// Forward validates, sanitizes, and posts the submission, returning the
// submission ID assigned to it.
func (f *Forwarder) Forward(ctx context.Context, sub Submission) (string, error) {
	if !f.Enabled() {
		return "", ErrDisabled
	}

	sub, err := sub.Validate()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	payload := struct {
		ID string `json:"id"`
		Submission
	}{ID: id, Submission: sub}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshalling submission: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, forwardTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("forwarding submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("form endpoint returned status %d", resp.StatusCode)
	}
	return id, nil
}
