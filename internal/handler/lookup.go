package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utilgate/utilgate/internal/lookup"
)

// TrackFinder resolves a user's latest track. Satisfied by lookup.LastFM.
type TrackFinder interface {
	LatestTrack(ctx context.Context, username string) (*lookup.Track, error)
}

// PriceFinder resolves a symbol's price. Satisfied by lookup.Pricer.
type PriceFinder interface {
	Price(ctx context.Context, symbol, vs string) (float64, error)
}

// LookupHandler proxies the external track and price services.
type LookupHandler struct {
	logger *slog.Logger
	tracks TrackFinder
	prices PriceFinder
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(logger *slog.Logger, tracks TrackFinder, prices PriceFinder) *LookupHandler {
	return &LookupHandler{
		logger: logger,
		tracks: tracks,
		prices: prices,
	}
}

// LastFM handles GET /lastfm/{username}.
func (h *LookupHandler) LastFM(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	track, err := h.tracks.LatestTrack(r.Context(), username)
	if err != nil {
		if errors.Is(err, lookup.ErrNoRecentTrack) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn("track lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "track lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, track)
}

// Price handles GET /valor/{symbol}?vs=...
func (h *LookupHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	price, err := h.prices.Price(r.Context(), symbol, r.URL.Query().Get("vs"))
	if err != nil {
		if errors.Is(err, lookup.ErrUnsupportedConversion) || errors.Is(err, lookup.ErrPriceUnavailable) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn("price lookup failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "price lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol": strings.ToUpper(symbol),
		"price":  price,
	})
}
