package api

import (
	"net/http"
)

// handleHealth returns the health status of the API plus reference-data and
// cache figures.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{"status": "ok"}
	if s.tracts != nil {
		health["census"] = s.tracts.Stats()
	}
	if s.store != nil {
		if n, err := s.store.Count(r.Context()); err == nil {
			health["cache_entries"] = n
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleFilers lists the institutions that filed for a year and geography.
func (s *Server) handleFilers(w http.ResponseWriter, r *http.Request) {
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

	filers, err := s.fetcher.Filers(r.Context(), q)
	if err != nil {
		respondFetchError(w, q, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":         q.Year,
		"count":        len(filers),
		"institutions": filers,
	})
}
