// Package currency переводит суммы подписок в валюту отчётов через exchangerate.host.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harshpatel-22/subsight-backend/internal/config"
	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
)

// RateCache хранилище курсов.
type RateCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Client клиент конвертации валют.
type Client struct {
	apiKey     string
	baseURL    string
	reporting  string
	rateTTL    time.Duration
	cache      RateCache
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient создаёт клиент. cache может быть nil.
func NewClient(cfg config.Currency, cache RateCache, log *slog.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		reporting:  strings.ToUpper(cfg.Reporting),
		rateTTL:    cfg.RateTTL,
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Reporting валюта отчётов.
func (c *Client) Reporting() string {
	return c.reporting
}

// Convert переводит amount из валюты from в валюту отчётов.
func (c *Client) Convert(ctx context.Context, from string, amount float64) (float64, error) {
	const op = "currency.Convert"
	from = strings.ToUpper(from)
	if from == c.reporting || amount == 0 {
		return amount, nil
	}

	key := "rate:" + from + ":" + c.reporting
	if c.cache != nil {
		var rate float64
		found, err := c.cache.Get(ctx, key, &rate)
		if err != nil {
			c.log.Warn("failed to read cached rate", sl.Op(op), sl.Err(err))
		}
		if found {
			return amount * rate, nil
		}
	}

	result, err := c.fetch(ctx, from, amount)
	if err != nil {
		return 0, apperr.Upstream("currency conversion failed", fmt.Errorf("%s: %w", op, err))
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, result/amount, c.rateTTL); err != nil {
			c.log.Warn("failed to cache rate", sl.Op(op), sl.Err(err))
		}
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, from string, amount float64) (float64, error) {
	q := url.Values{}
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	q.Set("from", from)
	q.Set("to", c.reporting)
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/convert?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errors.New("unexpected status: " + resp.Status)
	}

	var body convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if !body.Success {
		if body.Error != nil {
			return 0, fmt.Errorf("provider error %d: %s", body.Error.Code, body.Error.Info)
		}
		return 0, errors.New("provider returned success=false")
	}
	return body.Result, nil
}
