package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
)

// PriceHistorySource yields the N most recent daily candles for a pool,
// most-recent-first.
type PriceHistorySource interface {
	DailyOHLC(ctx context.Context, pool common.Address, days int) ([]OHLCSample, error)
}

type httpPriceHistory struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPriceHistory(conf *HistoryConf) PriceHistorySource {
	timeout := time.Duration(conf.TimeoutBySecond) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpPriceHistory{
		baseURL: conf.URL,
		client:  &http.Client{Timeout: timeout},
	}
}

type ohlcResponse struct {
	Data []struct {
		Timestamp int64   `json:"timestamp"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
	} `json:"data"`
}

func (h *httpPriceHistory) fetch(ctx context.Context, url string) (*ohlcResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("ohlc api status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	decoded := &ohlcResponse{}
	if err = json.NewDecoder(resp.Body).Decode(decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (h *httpPriceHistory) DailyOHLC(ctx context.Context, pool common.Address, days int) ([]OHLCSample, error) {
	url := fmt.Sprintf("%s/pools/%s/ohlcv/day?limit=%d", h.baseURL, pool.Hex(), days)

	decoded, err := retry.DoWithData(func() (*ohlcResponse, error) {
		return h.fetch(ctx, url)
	}, readAttempts, retryDelay, lastErrOnly, retry.Context(ctx))
	if err != nil {
		return nil, err
	}

	samples := make([]OHLCSample, 0, len(decoded.Data))
	for _, d := range decoded.Data {
		samples = append(samples, OHLCSample{
			Time:  time.Unix(d.Timestamp, 0).UTC(),
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
		})
	}

	// most-recent-first is the planner's contract
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Time.After(samples[j].Time)
	})
	return samples, nil
}
