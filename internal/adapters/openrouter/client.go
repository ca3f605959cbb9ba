// Package openrouter provides the streaming model backend. The completion
// arrives as server-sent-event frames which are reassembled before parsing.
package openrouter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
	"github.com/ewilliams-labs/beatlens/internal/core/ports"
)

const (
	defaultBaseURL = "https://openrouter.ai"
	modelID        = "google/gemini-3-flash-preview"

	refererHeader = "https://beatlens.ewilliams-labs.dev"
	titleHeader   = "BeatLens"
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
- "bpm" should be your best estimate of the actual tempo from the audio
- "elements" must have 3-5 entries describing core sonic elements (drums, bass, melody, atmosphere, samples, vocal chops, etc.)
- "tags" must have 5-10 entries using authentic Hip-Hop producer slang (e.g., "808 heavy", "chopped samples", "trap rolls", "dusty loops", "dark melody")
- "searchKeywords" should be useful for searching beat marketplaces or YouTube
- "summary" should read like a knowledgeable producer describing the beat

Analyze the actual audio provided and return accurate results based on what you hear.

Return ONLY the JSON object. No markdown, no code fences, no extra text.`

// formatTokens maps declared MIME types to the audio format token the API
// expects. Unrecognized types default to wav.
var formatTokens = map[string]string{
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/wave":  "wav",
	"audio/mp3":   "mp3",
	"audio/mpeg":  "mp3",
	"audio/ogg":   "ogg",
	"audio/aac":   "aac",
	"audio/flac":  "flac",
	"audio/m4a":   "m4a",
	"audio/webm":  "webm",
}

// FormatToken resolves the audio format token for a declared MIME type.
func FormatToken(mimeType string) string {
	if tok, ok := formatTokens[mimeType]; ok {
		return tok
	}
	return "wav"
}

// Client implements ports.BeatAnalyzer against the OpenRouter chat
// completions endpoint with streaming enabled.
type Client struct {
	configured bool
	baseURL    string
	httpClient *http.Client
}

var _ ports.BeatAnalyzer = (*Client)(nil)

type inputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type messagePart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	InputAudio *inputAudio `json:"input_audio,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []messagePart `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

// NewClient constructs an OpenRouter backend. The bearer credential is
// injected through an oauth2 static token source so every request carries the
// Authorization header without the key living on the client struct. An empty
// apiKey yields a disabled client; an empty baseURL selects production.
func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		configured: apiKey != "",
		baseURL:    baseURL,
	}
	if c.configured {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
		c.httpClient = oauth2.NewClient(context.Background(), src)
		c.httpClient.Timeout = 120 * time.Second
	}
	return c
}

// Analyze streams a completion for the clip and parses the reassembled text.
func (c *Client) Analyze(ctx context.Context, audio []byte, mimeType string) (domain.AnalysisResult, error) {
	if !c.configured {
		return domain.AnalysisResult{}, domain.ErrNotConfigured
	}

	payload := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []messagePart{
					{Type: "text", Text: analysisPrompt},
					{Type: "input_audio", InputAudio: &inputAudio{
						Data:   base64.StdEncoding.EncodeToString(audio),
						Format: FormatToken(mimeType),
					}},
				},
			},
		},
		Temperature: 0.7,
		MaxTokens:   2048,
		Stream:      true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("openrouter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("openrouter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("openrouter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.AnalysisResult{}, fmt.Errorf("openrouter: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	text, err := Aggregate(resp.Body)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	return domain.ParseAnalysis(text)
}
