package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmda-lens/cache"
)

const sampleCSV = "lei,loan_amount,action_taken\nLEI1,200000,1\nLEI2,150000,3\n"

func openTestCache(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(filepath.Join(t.TempDir(), "fetch_cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestQueryCacheKey(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"year only", Query{Year: 2023}, "hmda_2023"},
		{"states", Query{Year: 2023, States: []string{"CA", "NV"}}, "hmda_2023_CA_NV"},
		{"msamds", Query{Year: 2023, MSAMDs: []string{"31080"}}, "hmda_2023_31080"},
		{
			"states and msamds",
			Query{Year: 2022, States: []string{"CA"}, MSAMDs: []string{"31080", "40140"}},
			"hmda_2022_CA_31080_40140",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.CacheKey())
		})
	}
}

func TestLoanDataFetchAndCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/view/csv", r.URL.Path)
		assert.Equal(t, "2023", r.URL.Query().Get("years"))
		assert.Equal(t, "CA,NV", r.URL.Query().Get("states"))
		assert.Equal(t, "31080", r.URL.Query().Get("msamds"))
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	store := openTestCache(t)
	c := NewClient(srv.URL, 5*time.Second, store)
	q := Query{Year: 2023, States: []string{"CA", "NV"}, MSAMDs: []string{"31080"}}

	table, err := c.LoanData(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())
	assert.True(t, table.HasCol("loan_amount"))
	assert.Equal(t, 1, hits)

	// Second call replays the cached payload without touching the server.
	table, err = c.LoanData(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, 1, hits)

	payload, ok, err := store.Get(context.Background(), q.CacheKey())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleCSV, string(payload))
}

func TestLoanDataWithoutStore(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	q := Query{Year: 2023}

	_, err := c.LoanData(context.Background(), q)
	require.NoError(t, err)
	_, err = c.LoanData(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestLoanDataUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many rows requested", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	_, err := c.LoanData(context.Background(), Query{Year: 2023})
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "too many rows")
}

func TestLoanDataNoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace body", "\n\n"},
		{"header only", "lei,loan_amount,action_taken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second, nil)
			_, err := c.LoanData(context.Background(), Query{Year: 2023})
			assert.ErrorIs(t, err, ErrNoData)
		})
	}
}

func TestFilers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/view/filers", r.URL.Path)
		assert.Equal(t, "2023", r.URL.Query().Get("years"))
		assert.Equal(t, "CA", r.URL.Query().Get("states"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"institutions":[
			{"lei":"B90YWS6AFX2LGWOXJ1LD","name":"First Example Bank","period":2023},
			{"lei":"549300FX7K8PTEQUU487","name":"Example Credit Union","period":2023}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	filers, err := c.Filers(context.Background(), Query{Year: 2023, States: []string{"CA"}})
	require.NoError(t, err)
	require.Len(t, filers, 2)
	assert.Equal(t, "B90YWS6AFX2LGWOXJ1LD", filers[0].LEI)
	assert.Equal(t, "First Example Bank", filers[0].Name)
	assert.Equal(t, 2023, filers[0].Period)
}

func TestFilersDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	_, err := c.Filers(context.Background(), Query{Year: 2023})
	assert.Error(t, err)
}
