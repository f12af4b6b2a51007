package api

import (
	"net/http"

	"hmda-lens/hmda"
)

// handleQualify scores a target loan against comparable applications and
// the tract's reference attributes.
func (s *Server) handleQualify(w http.ResponseWriter, r *http.Request) {
	amount := getFloatParam(r, "amount", 0)
	income := getFloatParam(r, "income", 0)
	tract := r.URL.Query().Get("tract")
	if amount <= 0 || income <= 0 {
		respondWithError(w, http.StatusBadRequest, "amount and income are required", nil)
		return
	}
	if tract == "" {
		respondWithError(w, http.StatusBadRequest, "tract is required", nil)
		return
	}

	t, q, msamd, ok := s.analysisTable(w, r)
	if !ok {
		return
	}

	params := hmda.QualificationParams{
		LoanAmount:   amount,
		Income:       income,
		PropertyType: r.URL.Query().Get("property_type"),
		CensusTract:  tract,
		MSAMD:        msamd,
	}
	factors, ok := hmda.QualificationFactors(t, s.tractSource(q.Year), params)
	if !ok {
		respondWithError(w, http.StatusNotFound, "census tract not found", nil)
		return
	}

	local := hmda.LocalStatistics(t)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":                  q.Year,
		"tract":                 tract,
		"msamd":                 msamd,
		"qualification_factors": factors,
		"local_statistics":      local,
	})
}

// handleNeighborhood reports lending characteristics of a metro area broken
// down by tract demography, plus housing stock indicators.
func (s *Server) handleNeighborhood(w http.ResponseWriter, r *http.Request) {
	msamd, err := s.resolveMSAMD(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	if msamd == "" {
		respondWithError(w, http.StatusBadRequest, "msamd or city and state are required", nil)
		return
	}

	t, q, ok := s.fetchTable(w, r, msamd)
	if !ok {
		return
	}

	neighborhood := hmda.Neighborhood(t, s.tractSource(q.Year), msamd)

	response := map[string]interface{}{
		"year":         q.Year,
		"msamd":        msamd,
		"neighborhood": neighborhood,
	}
	if s.tracts != nil {
		if levels, ok := hmda.IncomeLevels(t, s.tracts.TractsForYear(q.Year), msamd); ok {
			response["income_levels"] = levels
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleMarketAssessment estimates affordability of a loan in a tract using
// the area's median family income.
func (s *Server) handleMarketAssessment(w http.ResponseWriter, r *http.Request) {
	tract := r.URL.Query().Get("tract")
	amount := getFloatParam(r, "amount", 0)
	if tract == "" || amount <= 0 {
		respondWithError(w, http.StatusBadRequest, "tract and amount are required", nil)
		return
	}

	minTerm, maxTerm := 1, 50
	rate := getFloatParam(r, "rate", s.loanRate)
	term := getIntParam(r, "term_years", s.loanTermYears, &minTerm, &maxTerm)
	year := getIntParam(r, "year", 0, nil, nil)

	assessment, ok := hmda.MarketAssessment(s.tractSource(year), tract, amount, rate, term)
	if !ok {
		respondWithError(w, http.StatusNotFound, "census tract not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tract":       tract,
		"loan_amount": amount,
		"assessment":  assessment,
	})
}

// handleRecommendations suggests loan programs for a borrower profile.
// Callers either supply dti and ltv directly or income and property_value
// to have them estimated.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	creditScore := getIntParam(r, "credit_score", 0, nil, nil)
	if creditScore <= 0 {
		respondWithError(w, http.StatusBadRequest, "credit_score is required", nil)
		return
	}

	dti := getFloatParam(r, "dti", 0)
	ltv := getFloatParam(r, "ltv", 0)

	var recommendations []hmda.Recommendation
	if dti > 0 && ltv > 0 {
		recommendations = hmda.RecommendPrograms(dti, ltv, creditScore)
	} else {
		income := getFloatParam(r, "income", 0)
		propertyValue := getFloatParam(r, "property_value", 0)
		if income <= 0 || propertyValue <= 0 {
			respondWithError(w, http.StatusBadRequest,
				"dti and ltv, or income and property_value, are required", nil)
			return
		}
		recommendations = hmda.Recommend(income, creditScore, propertyValue)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"credit_score":    creditScore,
		"recommendations": recommendations,
	})
}
