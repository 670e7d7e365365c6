package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"learnhub/backend/models"
)

// ContentGenerator calls the hosted serverless functions: one generates a
// course thumbnail and module tree from a title and description, the
// other renders a certificate PDF.
type ContentGenerator struct {
	client  *http.Client
	genURL  string
	certURL string
}

// ContentGenOption configures a ContentGenerator.
type ContentGenOption func(*ContentGenerator)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ContentGenOption {
	return func(g *ContentGenerator) {
		g.client = client
	}
}

func NewContentGenerator(genURL, certURL string, opts ...ContentGenOption) *ContentGenerator {
	g := &ContentGenerator{
		client:  &http.Client{Timeout: 30 * time.Second},
		genURL:  genURL,
		certURL: certURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratedContent is the function's answer for a new course.
type GeneratedContent struct {
	Thumbnail string                `json:"thumbnail"`
	Modules   []models.CourseModule `json:"modules"`
}

type contentGenRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type contentGenResponse struct {
	Success   bool                  `json:"success"`
	Error     string                `json:"error,omitempty"`
	Thumbnail string                `json:"thumbnail"`
	Modules   []models.CourseModule `json:"modules"`
}

// GenerateCourseContent asks the function for a thumbnail and module
// tree. Callers must treat a failure as non-fatal: course creation
// proceeds with the supplied fields and empty modules.
func (g *ContentGenerator) GenerateCourseContent(ctx context.Context, title, description string) (*GeneratedContent, error) {
	if g.genURL == "" {
		return nil, fmt.Errorf("content generation is not configured")
	}

	var out contentGenResponse
	if err := g.postJSON(ctx, g.genURL, contentGenRequest{Title: title, Description: description}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("content generation failed: %s", out.Error)
	}
	return &GeneratedContent{Thumbnail: out.Thumbnail, Modules: out.Modules}, nil
}

// CertificateRequest carries everything the rendering function needs.
type CertificateRequest struct {
	CourseTitle    string `json:"course_title"`
	LearnerName    string `json:"learner_name"`
	CompletionDate string `json:"completion_date"`
	CertificateID  string `json:"certificate_id"`
}

// GenerateCertificate renders the certificate and returns the PDF bytes.
func (g *ContentGenerator) GenerateCertificate(ctx context.Context, req CertificateRequest) ([]byte, error) {
	if g.certURL == "" {
		return nil, fmt.Errorf("certificate generation is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.certURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling certificate function: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("certificate function returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (g *ContentGenerator) postJSON(ctx context.Context, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling function: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("function returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
