package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickersJSON = `{
  "0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
  "1": {"cik_str": 1318605, "ticker": "TSLA", "title": "Tesla, Inc."}
}`

const submissionsJSON = `{
  "cik": "320193",
  "filings": {
    "recent": {
      "accessionNumber": ["0000320193-24-000123", "0000320193-24-000100", "0000320193-24-000081"],
      "filingDate": ["2024-11-01", "2024-08-02", "2024-05-03"],
      "reportDate": ["2024-09-28", "2024-06-29", "2024-03-30"],
      "form": ["10-K", "10-Q", "10-Q"],
      "primaryDocument": ["aapl-20240928.htm", "aapl-20240629.htm", "aapl-20240330.htm"]
    }
  }
}`

func newTestClient(t *testing.T) (*Client, *atomic.Int32) {
	t.Helper()
	var tickerLoads atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/files/company_tickers.json":
			tickerLoads.Add(1)
			w.Write([]byte(tickersJSON))
		case "/submissions/CIK0000320193.json":
			w.Write([]byte(submissionsJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return NewClient(WithBaseURL(server.URL), WithDataBaseURL(server.URL)), &tickerLoads
}

func TestListFilings_All(t *testing.T) {
	client, _ := newTestClient(t)

	filings, err := client.ListFilings(context.Background(), "aapl", nil, 0)
	require.NoError(t, err)
	require.Len(t, filings, 3)

	// Newest first
	assert.Equal(t, "10-K", filings[0].FormType)
	assert.Equal(t, "2024-11-01", filings[0].FiledDate.Format("2006-01-02"))
	assert.Contains(t, filings[0].URL, "/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm")
}

func TestListFilings_FormFilterAndCount(t *testing.T) {
	client, _ := newTestClient(t)

	filings, err := client.ListFilings(context.Background(), "AAPL", []string{"10-q"}, 1)
	require.NoError(t, err)
	require.Len(t, filings, 1)
	assert.Equal(t, "10-Q", filings[0].FormType)
	assert.Equal(t, "2024-08-02", filings[0].FiledDate.Format("2006-01-02"))
}

func TestListFilings_UnknownTicker(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ListFilings(context.Background(), "ZZZZ", nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CIK not found")
}

func TestListFilings_CIKTableCached(t *testing.T) {
	client, tickerLoads := newTestClient(t)

	_, err := client.ListFilings(context.Background(), "AAPL", nil, 0)
	require.NoError(t, err)
	_, err = client.ListFilings(context.Background(), "AAPL", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, int32(1), tickerLoads.Load(), "CIK table should load once")
}
