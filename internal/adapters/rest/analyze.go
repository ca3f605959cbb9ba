package rest

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ewilliams-labs/beatlens/internal/audio"
	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// Analyze handles POST /api/analyze: a multipart form with a single `audio`
// file part. The size and type checks duplicate client-side intake on
// purpose; the client-side check can be bypassed.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.metrics != nil {
		h.metrics.AnalysisRequests.Inc()
	}

	// 1. Pull the audio part out of the form
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.rejectUpload(w, "No audio file provided")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		h.rejectUpload(w, "No audio file provided")
		return
	}
	defer file.Close()

	// 2. Validate before reading the whole thing into memory
	if header.Size > audio.MaxUploadBytes {
		h.rejectUpload(w, "File too large (max 20MB)")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if !audio.IsAudioType(mimeType) {
		h.rejectUpload(w, "Unsupported file type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read audio file")
		return
	}

	// 3. Call the Service (The Core Logic)
	sub := domain.AudioSubmission{
		Data:     data,
		MimeType: mimeType,
		FileName: header.Filename,
	}
	res, err := h.svc.AnalyzeSubmission(r.Context(), sub)
	if err != nil {
		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) {
			h.rejectUpload(w, invalid.Message)
			return
		}
		// Everything downstream of validation is a 500 with the best
		// available message; the configuration sentinel already carries a
		// safe one.
		if h.metrics != nil {
			h.metrics.AnalysisFailures.Inc()
		}
		log.Printf("WARN rest: analysis failed: %v", err)
		if errors.Is(err, domain.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, domain.ErrNotConfigured.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 4. Return the Response
	if h.metrics != nil {
		h.metrics.AnalysisSuccesses.Inc()
		h.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}
	writeResult(w, http.StatusOK, res)
}

func (h *Handler) rejectUpload(w http.ResponseWriter, message string) {
	if h.metrics != nil {
		h.metrics.RejectedUploads.Inc()
	}
	writeError(w, http.StatusBadRequest, message)
}
