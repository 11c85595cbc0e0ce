package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-movers/models"
	"stock-movers/sources"
	"stock-movers/webclient"
)

const chartPayload = `{"chart":{"result":[{"meta":{"regularMarketPrice":12.5,"chartPreviousClose":10},
"timestamp":[1,2,3,4],"indicators":{"quote":[{"close":[10,null,11,12.5]}]}}],"error":null}}`

func TestYahooChart(t *testing.T) {
	var gotRange, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart/AAPL" {
			http.NotFound(w, r)
			return
		}
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	set := sources.New(sources.WithChart(srv.URL + "/chart/{symbol}?range={range}&interval={interval}"))
	c := NewYahooChart(webclient.New(nil), set)

	s, err := c.Chart(context.Background(), "AAPL", models.FiveYears.Plan())
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	if gotRange != "5y" || gotInterval != "1wk" {
		t.Errorf("Expected 5y/1wk, got %s/%s", gotRange, gotInterval)
	}
	if s.Price != 12.5 || s.PreviousClose != 10 {
		t.Errorf("Unexpected meta %+v", s)
	}
	if len(s.Samples) != 3 {
		t.Errorf("Expected null close dropped, got %v", s.Samples)
	}
}

func TestYahooChartErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chart/EMPTY":
			w.Write([]byte(`{"chart":{"result":[]}}`))
		case "/chart/BAD":
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		default:
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	set := sources.New(sources.WithChart(srv.URL + "/chart/{symbol}"))
	c := NewYahooChart(webclient.New(nil), set)
	for _, sym := range []string{"EMPTY", "BAD", "LIMITED"} {
		if _, err := c.Chart(context.Background(), sym, models.OneDay.Plan()); err == nil {
			t.Errorf("Expected error for %s", sym)
		}
	}
}

func TestResolverOverYahooChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	set := sources.New(sources.WithChart(srv.URL + "/{symbol}"))
	r := NewResolver(NewYahooChart(webclient.New(nil), set), set)

	q := r.Resolve(context.Background(), "AAPL", models.OneDay)
	if q.Source != "chart" || q.PercentChange != 25 {
		t.Errorf("Expected +25%% from chart, got %+v", q)
	}
}
