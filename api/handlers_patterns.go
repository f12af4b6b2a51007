package api

import (
	"net/http"

	"hmda-lens/hmda"
)

// handleApprovalPatterns breaks approval rates down by loan type, income
// bracket, and loan purpose.
func (s *Server) handleApprovalPatterns(w http.ResponseWriter, r *http.Request) {
	t, q, msamd, ok := s.analysisTable(w, r)
	if !ok {
		return
	}

	patterns := hmda.ApprovalPatterns(t, msamd)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":              q.Year,
		"states":            q.States,
		"msamd":             msamd,
		"approval_patterns": patterns,
	})
}

// handleDenialPatterns breaks denial reasons and rates down across the
// record set.
func (s *Server) handleDenialPatterns(w http.ResponseWriter, r *http.Request) {
	t, q, msamd, ok := s.analysisTable(w, r)
	if !ok {
		return
	}

	patterns := hmda.DenialPatterns(t, msamd)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":            q.Year,
		"states":          q.States,
		"msamd":           msamd,
		"denial_patterns": patterns,
	})
}
