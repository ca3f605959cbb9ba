package domain

import (
	"errors"
	"strings"
	"testing"
)

const validResponse = `{
	"styles": [
		{"name": "Trap", "percentage": 50, "description": "rolling hats"},
		{"name": "Drill", "percentage": 30, "description": "sliding 808s"},
		{"name": "Phonk", "percentage": 20, "description": "cowbell lead"}
	],
	"bpm": 142,
	"elements": [
		{"name": "Drums", "description": "crisp trap kit", "icon": "drum"},
		{"name": "Bass", "description": "distorted 808", "icon": "bass"},
		{"name": "Melody", "description": "dark bell loop", "icon": "music"}
	],
	"tags": ["808 heavy", "trap rolls", "dark melody", "hard hitting", "drill bounce"],
	"searchKeywords": "dark trap beat, drill type beat",
	"summary": "Hard-hitting trap with drill bounce."
}`

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "Success: plain JSON",
			raw:  validResponse,
		},
		{
			name: "Success: json-fenced response",
			raw:  "```json\n" + validResponse + "\n```",
		},
		{
			name: "Success: bare-fenced response",
			raw:  "```\n" + validResponse + "\n```",
		},
		{
			name:    "Malformed: not JSON",
			raw:     "the beat is fire, trust me",
			wantErr: true,
		},
		{
			name:    "Malformed: wrong percentage type",
			raw:     `{"styles":[{"name":"Trap","percentage":"sixty","description":"x"}],"elements":[{"name":"a","description":"b","icon":"drum"}],"tags":["x"]}`,
			wantErr: true,
		},
		{
			name:    "Malformed: empty styles",
			raw:     `{"styles":[],"elements":[{"name":"a","description":"b","icon":"drum"}],"tags":["x"]}`,
			wantErr: true,
		},
		{
			name:    "Malformed: missing elements",
			raw:     `{"styles":[{"name":"Trap","percentage":100,"description":"x"}],"tags":["x"]}`,
			wantErr: true,
		},
		{
			name:    "Malformed: missing tags",
			raw:     `{"styles":[{"name":"Trap","percentage":100,"description":"x"}],"elements":[{"name":"a","description":"b","icon":"drum"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseAnalysis(tt.raw)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got result %+v", res)
				}
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Styles) != 3 || res.BPM != 142 || len(res.Elements) != 3 || len(res.Tags) != 5 {
				t.Fatalf("unexpected result shape: %+v", res)
			}
			if sum := sumStyles(res.Styles); sum != 100 {
				t.Fatalf("percentages sum to %d, want 100", sum)
			}
		})
	}
}

// The model occasionally returns percentages that do not sum to 100; the
// parser repairs them deterministically by rescaling and adjusting the last
// entry.
func TestParseAnalysis_RepairsPercentages(t *testing.T) {
	raw := `{
		"styles": [
			{"name": "Trap", "percentage": 60, "description": "x"},
			{"name": "Drill", "percentage": 60, "description": "y"}
		],
		"bpm": 140,
		"elements": [
			{"name": "a", "description": "1", "icon": "drum"},
			{"name": "b", "description": "2", "icon": "bass"},
			{"name": "c", "description": "3", "icon": "music"}
		],
		"tags": ["t1", "t2", "t3", "t4", "t5"],
		"searchKeywords": "a,b",
		"summary": "s"
	}`

	res, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Styles[0].Percentage != 50 || res.Styles[1].Percentage != 50 {
		t.Fatalf("expected 50/50 split, got %d/%d", res.Styles[0].Percentage, res.Styles[1].Percentage)
	}
	if sum := sumStyles(res.Styles); sum != 100 {
		t.Fatalf("percentages sum to %d, want 100", sum)
	}
}

// Fractional percentages can sum to exactly 100 in float space and still
// round to 101; the integer result must come out repaired.
func TestParseAnalysis_RepairsFractionalPercentages(t *testing.T) {
	raw := `{
		"styles": [
			{"name": "Trap", "percentage": 33.5, "description": "x"},
			{"name": "Drill", "percentage": 33.5, "description": "y"},
			{"name": "Phonk", "percentage": 33, "description": "z"}
		],
		"bpm": 140,
		"elements": [
			{"name": "a", "description": "1", "icon": "drum"},
			{"name": "b", "description": "2", "icon": "bass"},
			{"name": "c", "description": "3", "icon": "music"}
		],
		"tags": ["t1", "t2", "t3", "t4", "t5"],
		"searchKeywords": "a,b",
		"summary": "s"
	}`

	res, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum := sumStyles(res.Styles); sum != 100 {
		t.Fatalf("percentages sum to %d, want exactly 100", sum)
	}
	if res.Styles[0].Percentage != 34 || res.Styles[1].Percentage != 34 || res.Styles[2].Percentage != 32 {
		t.Fatalf("unexpected repair: %+v", res.Styles)
	}
}

func TestNormalizePercentages(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []int
	}{
		{
			name:   "integer 100 is untouched",
			values: []float64{40, 35, 25},
			want:   []int{40, 35, 25},
		},
		{
			name:   "fractional 100 still repaired after rounding",
			values: []float64{33.5, 33.5, 33},
			want:   []int{34, 34, 32},
		},
		{
			name:   "fractional 100 overshooting on round",
			values: []float64{49.5, 50.5},
			want:   []int{50, 50},
		},
		{
			name:   "undershoot rescaled",
			values: []float64{33, 33, 33},
			want:   []int{33, 33, 34},
		},
		{
			name:   "overshoot rescaled",
			values: []float64{60, 60},
			want:   []int{50, 50},
		},
		{
			name:   "single entry",
			values: []float64{42},
			want:   []int{100},
		},
		{
			name:   "last entry absorbs rounding error",
			values: []float64{1, 1, 1},
			want:   []int{33, 33, 34},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePercentages(tt.values)
			if len(got) != len(tt.want) {
				t.Fatalf("length mismatch: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
			sum := 0
			for _, v := range got {
				sum += v
			}
			if sum != 100 {
				t.Fatalf("sum %d, want 100", sum)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fences is a no-op",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  ```json\n{\"a\":1}\n```  ",
			want:  `{"a":1}`,
		},
		{
			name:  "idempotent on stripped text",
			input: StripFences("```json\n{\"a\":1}\n```"),
			want:  `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.want {
				t.Fatalf("StripFences: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKnownIcon(t *testing.T) {
	for _, key := range []string{"drum", "music", "bass", "waves", "mic", "radio", "headphones", "volume-2", "zap", "sparkles"} {
		if !KnownIcon(key) {
			t.Fatalf("expected %q to be a known icon", key)
		}
	}
	if KnownIcon("guitar") || KnownIcon(strings.ToUpper("drum")) {
		t.Fatal("unexpected icon keys accepted")
	}
}

func sumStyles(styles []StyleBreakdown) int {
	sum := 0
	for _, s := range styles {
		sum += s.Percentage
	}
	return sum
}
