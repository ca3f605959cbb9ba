package domain

// StyleBreakdown is one entry of the sub-genre mix. Percentages across a
// single result always sum to exactly 100 after repair; the model does not
// guarantee this on its own.
type StyleBreakdown struct {
	Name        string `json:"name"`
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

// CoreElement describes one sonic component of a beat (drums, bass, melody...)
// paired with a display icon key.
type CoreElement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// AnalysisResult is the validated breakdown of one submitted clip.
// Styles, Elements and Tags are guaranteed non-empty; a result missing any of
// them is rejected outright rather than returned partially.
type AnalysisResult struct {
	Styles         []StyleBreakdown `json:"styles"`
	BPM            int              `json:"bpm"`
	Elements       []CoreElement    `json:"elements"`
	Tags           []string         `json:"tags"`
	SearchKeywords string           `json:"searchKeywords"`
	Summary        string           `json:"summary"`
}

// iconKeys is the fixed set of icon identifiers the model is prompted with.
// Unknown keys are not rejected; rendering falls back to a default.
var iconKeys = map[string]struct{}{
	"drum":       {},
	"music":      {},
	"bass":       {},
	"waves":      {},
	"mic":        {},
	"radio":      {},
	"headphones": {},
	"volume-2":   {},
	"zap":        {},
	"sparkles":   {},
}

// KnownIcon reports whether key is one of the prompted icon identifiers.
func KnownIcon(key string) bool {
	_, ok := iconKeys[key]
	return ok
}
