package api

import (
	"net/http"

	"hmda-lens/hmda"
)

// handleMarketTrends reports volume, rate, and pricing figures for a market
// alongside the per-demographic year summary.
func (s *Server) handleMarketTrends(w http.ResponseWriter, r *http.Request) {
	t, q, msamd, ok := s.analysisTable(w, r)
	if !ok {
		return
	}

	trends := hmda.MarketTrends(t, msamd)
	summary := hmda.SummarizeYear(t, q.Year)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":          q.Year,
		"states":        q.States,
		"msamd":         msamd,
		"market_trends": trends,
		"year_summary":  summary,
	})
}

// handleDemographics reports approval and volume statistics per race, sex,
// and ethnicity group.
func (s *Server) handleDemographics(w http.ResponseWriter, r *http.Request) {
	t, q, msamd, ok := s.analysisTable(w, r)
	if !ok {
		return
	}

	demographics := hmda.Demographics(t, msamd)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":         q.Year,
		"states":       q.States,
		"msamd":        msamd,
		"demographics": demographics,
	})
}
