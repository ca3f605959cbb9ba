package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Models frequently wrap JSON in markdown fencing despite being told not to.
var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// StripFences removes a leading and trailing markdown code fence from text.
// Text without fences passes through unchanged.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	text = fenceOpen.ReplaceAllString(text, "")
	return fenceClose.ReplaceAllString(text, "")
}

// wireResult mirrors the schema the model is prompted with. Percentages and
// bpm are decoded as floats because the model does not reliably emit
// integers; a non-numeric value fails the decode and is treated as malformed.
type wireResult struct {
	Styles []struct {
		Name        string  `json:"name"`
		Percentage  float64 `json:"percentage"`
		Description string  `json:"description"`
	} `json:"styles"`
	BPM            float64       `json:"bpm"`
	Elements       []CoreElement `json:"elements"`
	Tags           []string      `json:"tags"`
	SearchKeywords string        `json:"searchKeywords"`
	Summary        string        `json:"summary"`
}

// ParseAnalysis turns a raw model completion into a validated AnalysisResult.
// It strips markdown fencing, parses the JSON, rejects results missing any of
// styles/elements/tags, and repairs the style percentages so they sum to
// exactly 100. Any failure wraps ErrMalformedResponse.
func ParseAnalysis(raw string) (AnalysisResult, error) {
	text := StripFences(raw)

	var wire wireResult
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(wire.Styles) == 0 || len(wire.Elements) == 0 || len(wire.Tags) == 0 {
		return AnalysisResult{}, fmt.Errorf("%w: missing styles, elements or tags", ErrMalformedResponse)
	}

	raws := make([]float64, len(wire.Styles))
	for i, s := range wire.Styles {
		raws[i] = s.Percentage
	}
	percentages := NormalizePercentages(raws)

	styles := make([]StyleBreakdown, len(wire.Styles))
	for i, s := range wire.Styles {
		styles[i] = StyleBreakdown{
			Name:        s.Name,
			Percentage:  percentages[i],
			Description: s.Description,
		}
	}

	return AnalysisResult{
		Styles:         styles,
		BPM:            int(math.Round(wire.BPM)),
		Elements:       wire.Elements,
		Tags:           wire.Tags,
		SearchKeywords: wire.SearchKeywords,
		Summary:        wire.Summary,
	}, nil
}

// NormalizePercentages repairs a percentage distribution so it sums to
// exactly 100. Every value is rescaled by 100/total and rounded, then the
// LAST entry absorbs the rounding error. A distribution already at 100
// rescales by 1, but the last-entry adjustment still applies: fractional
// values can round to 99 or 101 even when the float total was exact. Always
// adjusting the last entry keeps the repair deterministic; grossly
// inconsistent inputs can push it negative, which is accepted rather than
// corrected further.
func NormalizePercentages(values []float64) []int {
	out := make([]int, len(values))
	if len(values) == 0 {
		return out
	}

	var total float64
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return out
	}

	factor := 100 / total
	for i, v := range values {
		out[i] = int(math.Round(v * factor))
	}

	rest := 0
	for _, v := range out[:len(out)-1] {
		rest += v
	}
	out[len(out)-1] = 100 - rest
	return out
}
