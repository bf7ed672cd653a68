package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultQuoteCurrency is the currency prices are quoted in.
const DefaultQuoteCurrency = "BRL"

// Quote cache TTLs. Fiat rates move slowly; crypto prices do not.
const (
	fiatQuoteTTL   = 10 * time.Minute
	cryptoQuoteTTL = 2 * time.Minute
)

// Price lookup errors surfaced to clients.
var (
	ErrUnsupportedConversion = errors.New("unsupported currency conversion")
	ErrPriceUnavailable      = errors.New("price unavailable")
)

// supportedFiat are the symbols resolved via the exchange-rate API
// rather than the crypto price API.
var supportedFiat = map[string]bool{
	"USD": true,
	"BRL": true,
	"EUR": true,
}

// QuoteCache caches resolved prices. Implemented by the Redis cache;
// a nil cache disables caching.
type QuoteCache interface {
	GetQuote(ctx context.Context, symbol, vs string) (float64, bool)
	SetQuote(ctx context.Context, symbol, vs string, price float64, ttl time.Duration)
}

// Pricer resolves fiat and crypto prices against a quote currency.
type Pricer struct {
	fiatURL   string
	cryptoURL string
	client    *http.Client
	cache     QuoteCache
}

// NewPricer creates a Pricer. fiatURL is the exchange-rate endpoint
// (rates keyed by target currency); cryptoURL is the crypto price
// endpoint (fsym/tsyms query parameters).
func NewPricer(fiatURL, cryptoURL string, timeout time.Duration, cache QuoteCache) *Pricer {
	return &Pricer{
		fiatURL:   fiatURL,
		cryptoURL: cryptoURL,
		client:    NewHTTPClient(timeout),
		cache:     cache,
	}
}

// Price returns how much one unit of symbol is worth in vs. Symbols are
// case-insensitive; vs defaults to DefaultQuoteCurrency when empty.
func (p *Pricer) Price(ctx context.Context, symbol, vs string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	if vs == "" {
		vs = DefaultQuoteCurrency
	}
	vs = strings.ToUpper(vs)

	if symbol == vs {
		return 1, nil
	}

	if p.cache != nil {
		if price, ok := p.cache.GetQuote(ctx, symbol, vs); ok {
			return price, nil
		}
	}

	var (
		price float64
		ttl   time.Duration
		err   error
	)
	if supportedFiat[symbol] {
		price, err = p.fiatRate(ctx, symbol, vs)
		ttl = fiatQuoteTTL
	} else {
		price, err = p.cryptoPrice(ctx, symbol, vs)
		ttl = cryptoQuoteTTL
	}
	if err != nil {
		return 0, err
	}

	if p.cache != nil {
		p.cache.SetQuote(ctx, symbol, vs, price, ttl)
	}
	return price, nil
}

// fiatRate resolves a fiat conversion via the exchange-rate API.
func (p *Pricer) fiatRate(ctx context.Context, symbol, vs string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.fiatURL+"/"+symbol, nil)
	if err != nil {
		return 0, fmt.Errorf("build fiat request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch fiat rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fiat rate lookup failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode fiat rate: %w", err)
	}

	if payload.Result != "success" || payload.Rates == nil {
		return 0, ErrPriceUnavailable
	}

	rate, ok := payload.Rates[vs]
	if !ok {
		return 0, ErrUnsupportedConversion
	}
	return rate, nil
}

// cryptoPrice resolves a crypto symbol via the crypto price API.
func (p *Pricer) cryptoPrice(ctx context.Context, symbol, vs string) (float64, error) {
	url := fmt.Sprintf("%s?fsym=%s&tsyms=%s", p.cryptoURL, symbol, vs)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build crypto request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch crypto price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("crypto price lookup failed with status %d", resp.StatusCode)
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode crypto price: %w", err)
	}

	// Error payloads carry Response/Message instead of a quote.
	if raw, ok := payload["Response"]; ok {
		var response string
		_ = json.Unmarshal(raw, &response)
		if response == "Error" {
			var message string
			if rawMsg, ok := payload["Message"]; ok {
				_ = json.Unmarshal(rawMsg, &message)
			}
			if message != "" {
				return 0, fmt.Errorf("%w: %s", ErrPriceUnavailable, message)
			}
			return 0, ErrPriceUnavailable
		}
	}

	raw, ok := payload[vs]
	if !ok {
		return 0, ErrPriceUnavailable
	}

	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, ErrPriceUnavailable
	}
	return price, nil
}
