package rest

import (
	"errors"
	"net/http"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// LatestResult handles GET /api/results/latest: the transient session slot
// holding the most recent analysis, overwritten on every submission.
func (h *Handler) LatestResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.LatestResult(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoResult) {
			writeError(w, http.StatusNotFound, domain.ErrNoResult.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeResult(w, http.StatusOK, res)
}
