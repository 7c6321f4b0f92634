package api

import (
	"net/http"
	"time"
)

// ─── POST /report/send ────────────────────────────────────────────────────────

// handleSendReport triggers one report run on demand, covering the previous
// calendar day exactly as the scheduled run would. The pipeline has already
// logged the failure detail; the response carries the failure text so an
// operator poking the endpoint sees why it failed.
func (s *Server) handleSendReport(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.Run(r.Context(), time.Now()); err != nil {
		respondErr(w, http.StatusInternalServerError, "failed to send report: "+err.Error())
		return
	}

	respond(w, http.StatusOK, map[string]string{"message": "report sent successfully"})
}
