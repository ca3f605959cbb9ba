package openrouter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// deltaFrame is one SSE payload of a streamed chat completion. Only the
// content delta matters here; usage and control frames are tolerated and
// dropped.
type deltaFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Aggregate reassembles a chunked SSE stream into the one text completion it
// carries. Reads arrive in arbitrarily-sized chunks that may split a logical
// line, so an incomplete trailing line is buffered across reads and only
// whole lines are processed. Frames that are not valid JSON are skipped
// rather than aborting the stream. An empty reassembled completion is fatal.
func Aggregate(r io.Reader) (string, error) {
	var content strings.Builder
	var pending string

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			pending += string(buf[:n])
			lines := strings.Split(pending, "\n")
			pending = lines[len(lines)-1]
			for _, line := range lines[:len(lines)-1] {
				consumeLine(&content, line)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("openrouter: stream read: %w", err)
		}
	}
	if pending != "" {
		consumeLine(&content, pending)
	}

	if content.Len() == 0 {
		return "", domain.ErrNoContent
	}
	return content.String(), nil
}

func consumeLine(content *strings.Builder, line string) {
	line = strings.TrimRight(line, "\r")
	if !strings.HasPrefix(line, dataPrefix) {
		return
	}
	payload := strings.TrimPrefix(line, dataPrefix)
	if payload == doneSentinel {
		return
	}

	var frame deltaFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		return
	}
	if len(frame.Choices) > 0 {
		content.WriteString(frame.Choices[0].Delta.Content)
	}
}
