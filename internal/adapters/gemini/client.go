// Package gemini provides the non-streaming model backend. It sends the
// analysis prompt plus inline base64 audio to the Gemini API and parses the
// free-text completion into a domain AnalysisResult.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
	"github.com/ewilliams-labs/beatlens/internal/core/ports"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	modelID        = "gemini-2.5-pro"
)

const analysisPrompt = `You are an expert Hip-Hop music producer and audio analyst with deep knowledge of all sub-genres. Analyze the provided audio clip and return a JSON analysis.

Your response MUST be valid JSON matching this exact schema:
{
  "styles": [
    {"name": "string (Hip-Hop sub-genre)", "percentage": number (0-100), "description": "string (1 sentence explaining why)"}
  ],
  "bpm": number,
  "elements": [
    {"name": "string", "description": "string (1-2 sentences)", "icon": "string (one of: drum, music, bass, waves, mic, radio, headphones, volume-2, zap, sparkles)"}
  ],
  "tags": ["string (Hip-Hop slang/pro terminology)"],
  "searchKeywords": "string (comma-separated keywords for finding similar beats on YouTube/Bilibili)",
  "summary": "string (2-3 sentence summary of the beat's character, written like a producer talking to another producer)"
}

Rules:
- "styles" must have 3-6 entries. Percentages MUST sum to 100. Use real Hip-Hop sub-genres: Trap, Boom Bap, Lo-fi, Drill (UK/NY/Chicago), Phonk, Cloud Rap, G-Funk, Crunk, Chopped & Screwed, Jersey Club, Memphis Rap, Hyphy, Grime, Plugg, Rage, Detroit Type, etc.
- "bpm" should be your best estimate of the tempo
- "elements" must have 3-5 entries describing core sonic elements (drums, bass, melody, atmosphere, samples, vocal chops, etc.)
- "tags" must have 5-10 entries using authentic Hip-Hop producer slang (e.g., "808 heavy", "chopped samples", "trap rolls", "dusty loops", "dark melody")
- "searchKeywords" should be useful for searching beat marketplaces or YouTube
- "summary" should read like a knowledgeable producer describing the beat

Return ONLY the JSON object. No markdown, no code fences, no extra text.`

// Client implements ports.BeatAnalyzer against the Gemini generateContent
// endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ ports.BeatAnalyzer = (*Client)(nil)

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string        `json:"role"`
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient constructs a Gemini backend. An empty apiKey yields a disabled
// client whose Analyze reports the configuration error; an empty baseURL
// selects the production endpoint.
func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Analyze sends the clip inline and parses the completion.
func (c *Client) Analyze(ctx context.Context, audio []byte, mimeType string) (domain.AnalysisResult, error) {
	if c.apiKey == "" {
		return domain.AnalysisResult{}, domain.ErrNotConfigured
	}

	payload := generateRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []contentPart{
					{Text: analysisPrompt},
					{InlineData: &inlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(audio),
					}},
				},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key rides in a header rather than the query string so it never
	// shows up in access logs.
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.AnalysisResult{}, fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("gemini: decode response: %w", err)
	}
	if parsed.Error != nil {
		return domain.AnalysisResult{}, fmt.Errorf("gemini: %s", parsed.Error.Message)
	}

	var text strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return domain.AnalysisResult{}, domain.ErrNoContent
	}

	return domain.ParseAnalysis(text.String())
}
