package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func yahooTestServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYahooFetchBars_ParsesChart(t *testing.T) {
	srv := yahooTestServer(t, `{"chart":{"result":[{
		"timestamp":[1760000000,1760000060,1760000120],
		"indicators":{"quote":[{
			"open":[1.1,1.2,1.3],
			"high":[1.15,1.25,1.35],
			"low":[1.05,1.15,1.25],
			"close":[1.12,1.22,1.32],
			"volume":[100,200,300]
		}]}
	}]}}`)

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.FetchBars("EURUSD=X", "1m", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	if bars[0].Close != 1.12 || bars[2].Close != 1.32 {
		t.Errorf("unexpected closes: %v %v", bars[0].Close, bars[2].Close)
	}
	if !bars[0].Time.Before(bars[2].Time) {
		t.Error("bars not ascending by time")
	}
	if bars[1].Volume != 200 {
		t.Errorf("volume = %v, want 200", bars[1].Volume)
	}
}

func TestYahooFetchBars_QuoteShorterThanTimestamps(t *testing.T) {
	// Partial bars: quote arrays trail the timestamp list.
	srv := yahooTestServer(t, `{"chart":{"result":[{
		"timestamp":[1760000000,1760000060,1760000120],
		"indicators":{"quote":[{
			"open":[1.1,1.2],
			"high":[1.15,1.25],
			"low":[1.05,1.15],
			"close":[1.12,1.22],
			"volume":[100]
		}]}
	}]}}`)

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.FetchBars("EURUSD=X", "1m", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want the 2 complete rows", len(bars))
	}
	if bars[0].Volume != 100 || bars[1].Volume != 0 {
		t.Errorf("volumes = %v/%v, want 100 and 0 for the missing entry", bars[0].Volume, bars[1].Volume)
	}
}

func TestYahooFetchBars_NullBarsSkipped(t *testing.T) {
	srv := yahooTestServer(t, `{"chart":{"result":[{
		"timestamp":[1760000000,1760000060],
		"indicators":{"quote":[{
			"open":[null,1.2],
			"high":[null,1.25],
			"low":[null,1.15],
			"close":[null,1.22],
			"volume":[null,200]
		}]}
	}]}}`)

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.FetchBars("EURUSD=X", "1m", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1 after dropping the null row", len(bars))
	}
}

func TestYahooFetchBars_APIError(t *testing.T) {
	srv := yahooTestServer(t, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := f.FetchBars("BOGUS", "1m", 300); err == nil {
		t.Error("expected error from chart API error payload")
	}
}
