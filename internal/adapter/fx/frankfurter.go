// Package fx provides exchange-rate providers.
package fx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/pkg/money"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 64 << 10

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FrankfurterClient fetches latest rates from a Frankfurter-compatible API.
type FrankfurterClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewFrankfurterClient creates a client. A nil httpClient uses a default
// client with the given timeout.
func NewFrankfurterClient(baseURL string, timeout time.Duration, httpClient HTTPClient, log zerolog.Logger) *FrankfurterClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &FrankfurterClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		log:        log,
	}
}

type latestResponse struct {
	Base  string                 `json:"base"`
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

// GetRate returns the rate converting base into quote.
func (c *FrankfurterClient) GetRate(ctx context.Context, base, quote money.Currency) (money.Rate, error) {
	if base == quote {
		return money.MustParseRate("1"), nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("base", base.String())
	q.Set("symbols", quote.String())
	endpoint := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return money.Rate{}, fmt.Errorf("%w: building request: %v", domain.ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("base", base.String()).Str("quote", quote.String()).Msg("fx: request failed")
		return money.Rate{}, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("base", base.String()).
			Str("quote", quote.String()).
			Msg("fx: non-2xx response")
		return money.Rate{}, fmt.Errorf("%w: provider returned status %d", domain.ErrRateUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return money.Rate{}, fmt.Errorf("%w: reading body: %v", domain.ErrRateUnavailable, err)
	}

	var payload latestResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return money.Rate{}, fmt.Errorf("%w: decoding body: %v", domain.ErrRateParse, err)
	}

	raw, ok := payload.Rates[quote.String()]
	if !ok {
		return money.Rate{}, fmt.Errorf("%w: no %s rate in response", domain.ErrRateParse, quote)
	}
	rate, err := money.ParseRate(raw.String())
	if err != nil {
		return money.Rate{}, fmt.Errorf("%w: %v", domain.ErrRateParse, err)
	}

	c.log.Debug().
		Str("base", base.String()).
		Str("quote", quote.String()).
		Str("rate", rate.String()).
		Str("date", payload.Date).
		Dur("latency", time.Since(start)).
		Msg("fx: rate fetched")

	return rate, nil
}
