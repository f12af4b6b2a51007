package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"hmda-lens/cache"
	"hmda-lens/census"
	"hmda-lens/fetch"
	"hmda-lens/hmda"
)

// Server handles HTTP API requests
type Server struct {
	fetcher LoanFetcher
	tracts  *census.Data
	msa     *census.MSAIndex
	store   *cache.Store

	defaultStates []string
	loanRate      float64
	loanTermYears int
}

// LoanFetcher defines the upstream data access the handlers depend on
type LoanFetcher interface {
	LoanData(ctx context.Context, q fetch.Query) (*hmda.Table, error)
	Filers(ctx context.Context, q fetch.Query) ([]fetch.Filer, error)
}

// NewServer creates a new API server instance
func NewServer(fetcher LoanFetcher, tracts *census.Data, msa *census.MSAIndex, store *cache.Store) *Server {
	return &Server{
		fetcher:       fetcher,
		tracts:        tracts,
		msa:           msa,
		store:         store,
		loanRate:      hmda.DefaultInterestRate,
		loanTermYears: hmda.DefaultTermYears,
	}
}

// SetDefaultStates sets the state filter applied when a request names none.
func (s *Server) SetDefaultStates(states []string) {
	s.defaultStates = states
}

// SetLoanDefaults sets the mortgage terms used when a request names none.
func (s *Server) SetLoanDefaults(annualRate float64, termYears int) {
	if annualRate > 0 {
		s.loanRate = annualRate
	}
	if termYears > 0 {
		s.loanTermYears = termYears
	}
}

// Routes assembles the route table and middleware chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/filers", s.handleFilers)

	// Lending Pattern Routes
	mux.HandleFunc("GET /api/patterns/approval", s.handleApprovalPatterns)
	mux.HandleFunc("GET /api/patterns/denial", s.handleDenialPatterns)

	// Market Trend Routes
	mux.HandleFunc("GET /api/trends/market", s.handleMarketTrends)
	mux.HandleFunc("GET /api/demographics", s.handleDemographics)

	// Data Quality Routes
	mux.HandleFunc("GET /api/quality", s.handleQuality)
	mux.HandleFunc("POST /api/register", s.handlePrepareRegister)
	mux.HandleFunc("POST /api/reportable", s.handleReportable)

	// Borrower Guidance Routes
	mux.HandleFunc("GET /api/qualify", s.handleQualify)
	mux.HandleFunc("GET /api/neighborhood", s.handleNeighborhood)
	mux.HandleFunc("GET /api/market-assessment", s.handleMarketAssessment)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)

	// Add middleware
	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.Routes())
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// resolveMSAMD returns the request's MSA/MD code. A direct msamd parameter
// wins; otherwise city and state go through the lookup table. The error is
// non-nil only when a named city/state has no mapping.
func (s *Server) resolveMSAMD(r *http.Request) (string, error) {
	if msamd := r.URL.Query().Get("msamd"); msamd != "" {
		return msamd, nil
	}
	city, state := r.URL.Query().Get("city"), r.URL.Query().Get("state")
	if city == "" || state == "" {
		return "", nil
	}
	if s.msa != nil {
		if code, ok := s.msa.Lookup(city, state); ok {
			return code, nil
		}
	}
	return "", fmt.Errorf("no MSA/MD mapping for %s, %s", city, state)
}

// loanQuery builds the fetch query for a request: filing year (the census
// default year when absent), state filter, optional MSA/MD narrowing.
func (s *Server) loanQuery(r *http.Request, msamd string) fetch.Query {
	year := 0
	if s.tracts != nil {
		year = s.tracts.DefaultYear()
	}
	q := fetch.Query{Year: getIntParam(r, "year", year, nil, nil)}
	if states := r.URL.Query().Get("states"); states != "" {
		q.States = splitParam(states)
	} else {
		q.States = s.defaultStates
	}
	if msamd != "" {
		q.MSAMDs = []string{msamd}
	}
	return q
}

// fetchTable loads and type-coerces the loan table for a request. On
// failure it writes the error response and reports false.
func (s *Server) fetchTable(w http.ResponseWriter, r *http.Request, msamd string) (*hmda.Table, fetch.Query, bool) {
	q := s.loanQuery(r, msamd)
	if q.Year <= 0 {
		respondWithError(w, http.StatusBadRequest, "year is required", nil)
		return nil, q, false
	}
	raw, err := s.fetcher.LoanData(r.Context(), q)
	if err != nil {
		respondFetchError(w, q, err)
		return nil, q, false
	}
	clean, _ := hmda.Validate(raw)
	return clean, q, true
}

// analysisTable resolves the request geography and loads the loan table in
// one step, for handlers with no extra parameter requirements.
func (s *Server) analysisTable(w http.ResponseWriter, r *http.Request) (*hmda.Table, fetch.Query, string, bool) {
	msamd, err := s.resolveMSAMD(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
		return nil, fetch.Query{}, "", false
	}
	t, q, ok := s.fetchTable(w, r, msamd)
	return t, q, msamd, ok
}

// tractSource returns the census view for a filing year, nil when no
// reference data is loaded.
func (s *Server) tractSource(year int) hmda.TractSource {
	if s.tracts == nil {
		return nil
	}
	return s.tracts.ForYear(year)
}

// Handlers are distributed across multiple files:
// - handlers_system.go: Health and the filer directory
// - handlers_patterns.go: Approval and denial pattern analysis
// - handlers_trends.go: Market trends and demographics
// - handlers_quality.go: Validation, QC, register formatting, reportability
// - handlers_borrower.go: Qualification, neighborhood, affordability, programs
