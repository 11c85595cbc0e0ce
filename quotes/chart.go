package quotes

import (
	"context"
	"errors"
	"fmt"

	"stock-movers/models"
	"stock-movers/sources"
	"stock-movers/webclient"
)

// Series is the parsed payload of one time-series request.
type Series struct {
	Price         float64
	PreviousClose float64
	Samples       []float64 // closes in chronological order, gaps removed
	MarketCap     float64
}

// ChartSource fetches a period-aware time series for one symbol.
type ChartSource interface {
	Chart(ctx context.Context, symbol string, plan models.SamplingPlan) (*Series, error)
}

// Yahoo chart v8 payload.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
				MarketCap          float64 `json:"marketCap"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

var errNoResult = errors.New("no result in chart response")

// YahooChart reads the v8 chart endpoint described by the source set.
type YahooChart struct {
	client   *webclient.Client
	template string
}

func NewYahooChart(client *webclient.Client, set *sources.Set) *YahooChart {
	return &YahooChart{client: client, template: set.Chart()}
}

func (c *YahooChart) Chart(ctx context.Context, symbol string, plan models.SamplingPlan) (*Series, error) {
	url := sources.Fill(c.template, "symbol", symbol, "range", plan.Range, "interval", plan.Interval)

	var resp yahooChartResponse
	if err := c.client.DecodeJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, errNoResult
	}

	result := resp.Chart.Result[0]
	s := &Series{
		Price:         result.Meta.RegularMarketPrice,
		PreviousClose: result.Meta.ChartPreviousClose,
		MarketCap:     result.Meta.MarketCap,
	}
	if s.PreviousClose == 0 {
		s.PreviousClose = result.Meta.PreviousClose
	}
	// null closes decode as zero
	if len(result.Indicators.Quote) > 0 {
		for _, v := range result.Indicators.Quote[0].Close {
			if v > 0 {
				s.Samples = append(s.Samples, v)
			}
		}
	}
	if s.Price == 0 && len(s.Samples) > 0 {
		s.Price = s.Samples[len(s.Samples)-1]
	}
	return s, nil
}
