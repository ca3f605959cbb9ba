// Package apiclient is the submission dispatcher: it packages a validated
// audio payload as a multipart request to the server boundary and decodes the
// response envelope. It never retries on its own; the caller decides.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// RequestError is a transport-level failure: network trouble or a non-success
// status from the server. Message carries the best available user-facing
// text; the same submission can be retried by the user as-is.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Client submits audio to a BeatLens server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a dispatcher for the given server base URL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 180 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    *domain.AnalysisResult `json:"data"`
	Error   string                 `json:"error"`
}

// Submit sends one submission and waits for the structured result. The caller
// guarantees at most one outstanding call at a time.
func (c *Client) Submit(ctx context.Context, sub domain.AudioSubmission) (domain.AnalysisResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	// CreateFormFile would stamp application/octet-stream; the server keys
	// its type check off the declared part type, so build the part by hand.
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, sub.FileName))
	partHeader.Set("Content-Type", sub.MimeType)
	part, err := form.CreatePart(partHeader)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("apiclient: build form: %w", err)
	}
	if _, err := part.Write(sub.Data); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("apiclient: write form: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("apiclient: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", &body)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, &RequestError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.AnalysisResult{}, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unreadable response (status %d)", resp.StatusCode),
		}
	}

	if !env.Success || env.Data == nil {
		message := env.Error
		if message == "" {
			message = fmt.Sprintf("analysis failed (status %d)", resp.StatusCode)
		}
		return domain.AnalysisResult{}, &RequestError{StatusCode: resp.StatusCode, Message: message}
	}

	return *env.Data, nil
}
