package api

import (
	"log"
	"net/http"

	"hmda-lens/hmda"
)

// handleQuality runs validation and quality control over a fetched record
// set and returns both reports.
func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	msamd, err := s.resolveMSAMD(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	q := s.loanQuery(r, msamd)
	if q.Year <= 0 {
		respondWithError(w, http.StatusBadRequest, "year is required", nil)
		return
	}

	raw, err := s.fetcher.LoanData(r.Context(), q)
	if err != nil {
		respondFetchError(w, q, err)
		return
	}

	clean, report := hmda.Validate(raw)
	qc := hmda.RunQC(clean)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":            q.Year,
		"states":          q.States,
		"msamd":           msamd,
		"total_records":   raw.NumRows(),
		"validation":      report,
		"quality_control": qc,
	})
}

// handlePrepareRegister formats a posted CSV record set into the canonical
// submission-ready shape. The default response is the preparation summary;
// format=csv returns the formatted register itself.
func (s *Server) handlePrepareRegister(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	raw, err := hmda.FromCSV(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid CSV body", err)
		return
	}

	formatted, summary := hmda.PrepareRegister(raw)
	if len(summary.Errors) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(summary)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := formatted.WriteCSV(w); err != nil {
			log.Printf("Error writing register CSV: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// handleReportable decides whether a posted application record belongs in
// the LAR.
func (s *Server) handleReportable(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in hmda.ReportabilityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reportable, reason := hmda.IsReportable(in)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reportable": reportable,
		"reason":     reason,
	})
}
