// Package api serves the movers board, symbol search and cached logos over
// HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/phuslu/log"

	"stock-movers/logging"
	"stock-movers/models"
	"stock-movers/search"
	"stock-movers/sources"
)

// Board is the read side of the published board.
type Board interface {
	Snapshot() models.Snapshot
}

// PeriodSetter restarts enrichment for a new period.
type PeriodSetter interface {
	SetPeriod(models.Period)
}

// Searcher finds symbols by text.
type Searcher interface {
	Search(query string, limit int) []search.Document
	Get(symbol string) *search.Document
}

// LogoStore returns the path of a cached logo image.
type LogoStore interface {
	Get(symbol string) (string, bool)
}

// Handler serves the HTTP surface. Engine and Logos may be nil, in which
// case their routes answer 404.
type Handler struct {
	Board   Board
	Periods PeriodSetter
	Engine  Searcher
	Logos   LogoStore
	logger  *log.Logger
}

func NewHandler(board Board, periods PeriodSetter, engine Searcher, logos LogoStore, logger *log.Logger) *Handler {
	return &Handler{Board: board, Periods: periods, Engine: engine, Logos: logos, logger: logging.OrDiscard(logger)}
}

// Register installs the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/movers", h.Movers)
	mux.HandleFunc("/api/period", h.SetPeriod)
	mux.HandleFunc("/api/stock", h.GetStock)
	mux.HandleFunc("/api/logo", h.Logo)
	mux.HandleFunc("/search", h.Search)
}

// Movers returns the current board. ?limit=N keeps the top N records.
func (h *Handler) Movers(w http.ResponseWriter, r *http.Request) {
	snap := h.Board.Snapshot()
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		if n < len(snap.Records) {
			snap.Records = snap.Records[:n]
		}
	}
	writeJSON(w, http.StatusOK, snap)
}

// SetPeriod accepts ?period=1W and restarts the board for it.
func (h *Handler) SetPeriod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw := r.URL.Query().Get("period")
	if raw == "" {
		http.Error(w, "Missing period parameter", http.StatusBadRequest)
		return
	}
	period, err := models.ParsePeriod(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Periods.SetPeriod(period)
	h.logger.Info().Str("period", period.String()).Msg("period change requested")
	writeJSON(w, http.StatusAccepted, map[string]string{"period": period.String()})
}

// GetStock returns the board record for ?symbol=, falling back to the search
// index when the symbol is not on the board.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := sources.Key(r.URL.Query().Get("symbol"))
	if symbol == "" {
		http.Error(w, "Missing symbol parameter", http.StatusBadRequest)
		return
	}

	for _, rec := range h.Board.Snapshot().Records {
		if rec.Symbol == symbol {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	if h.Engine != nil {
		if doc := h.Engine.Get(symbol); doc != nil {
			writeJSON(w, http.StatusOK, doc)
			return
		}
	}
	http.Error(w, "Stock not found", http.StatusNotFound)
}

// Logo serves the cached PNG for ?symbol=. A 404 tells the client to draw
// its placeholder.
func (h *Handler) Logo(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if strings.TrimSpace(symbol) == "" {
		http.Error(w, "Missing symbol parameter", http.StatusBadRequest)
		return
	}
	if h.Logos == nil {
		http.NotFound(w, r)
		return
	}
	path, ok := h.Logos.Get(symbol)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing query parameter 'q'", http.StatusBadRequest)
		return
	}
	if h.Engine == nil {
		http.NotFound(w, r)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results := h.Engine.Search(query, limit)
	if results == nil {
		results = []search.Document{}
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
