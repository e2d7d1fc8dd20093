package api

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	exchangev1 "github.com/muhammadchandra19/kairon/internal/domain/exchange/v1"
	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	orderwriterv1 "github.com/muhammadchandra19/kairon/internal/domain/order-writer/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/internal/infrastructure/questdb/trade"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/muhammadchandra19/kairon/pkg/util"
	"github.com/rs/cors"
)

const (
	defaultDepth      = 20
	defaultTradeLimit = 50
	maxTradeLimit     = 1000

	// Order ids assigned by the API live in [apiOrderIDBase, apiOrderIDBase+apiOrderIDSpan).
	apiOrderIDBase = 999000000
	apiOrderIDSpan = 100000
)

// Options configures the API server.
type Options struct {
	Scale          fixedpoint.Scale
	AllowedOrigins []string
}

// Server serves the REST API and the WebSocket trade feed.
type Server struct {
	exchange exchangev1.Exchange
	writer   orderwriterv1.OrderWriter
	trades   trade.TradeRepository
	hub      *Hub
	health   *healthcheck.HealthCheck
	logger   *logger.Logger
	options  Options
	router   *mux.Router
	newID    func() int64
}

// NewServer creates a new API server. trades may be nil when the trade tape
// is disabled.
func NewServer(
	exchange exchangev1.Exchange,
	writer orderwriterv1.OrderWriter,
	trades trade.TradeRepository,
	hub *Hub,
	health *healthcheck.HealthCheck,
	log *logger.Logger,
	options Options,
) *Server {
	s := &Server{
		exchange: exchange,
		writer:   writer,
		trades:   trades,
		hub:      hub,
		health:   health,
		logger:   log,
		options:  options,
		router:   mux.NewRouter(),
		newID: func() int64 {
			return apiOrderIDBase + rand.Int64N(apiOrderIDSpan)
		},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/markets", s.handleGetMarkets).Methods(http.MethodGet)
	api.HandleFunc("/markets/{symbol}/ticker", s.handleGetTicker).Methods(http.MethodGet)
	api.HandleFunc("/markets/{symbol}/orderbook", s.handleGetOrderbook).Methods(http.MethodGet)
	api.HandleFunc("/markets/{symbol}/trades", s.handleGetTrades).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods(http.MethodPost)

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler returns the router wrapped with CORS, request ids and the health check.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.options.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", util.RequestIDHeader},
		ExposedHeaders: []string{util.RequestIDHeader},
	})

	return c.Handler(util.RequestIDMiddleware(s.health.Handler(s.router)))
}

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MarketsResponse{Symbols: s.exchange.Symbols()})
}

func (s *Server) handleGetTicker(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	book, ok := s.exchange.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", symbol)
		return
	}

	t := book.GetTicker()
	both := t.HasBid && t.HasAsk
	respondJSON(w, http.StatusOK, TickerResponse{
		Symbol:    symbol,
		LastPrice: s.optionalNumber(t.LastPrice, t.LastPrice != orderbookv1.PriceAbsent),
		BestBid:   s.optionalNumber(t.BestBid, t.HasBid),
		BestAsk:   s.optionalNumber(t.BestAsk, t.HasAsk),
		Spread:    s.optionalNumber(t.Spread, both),
		MidPrice:  s.optionalNumber(t.MidPrice, both),
	})
}

func (s *Server) handleGetOrderbook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	depth, err := queryInt(r, "depth", defaultDepth)
	if err != nil || depth <= 0 {
		respondError(w, http.StatusBadRequest, "invalid depth", r.URL.Query().Get("depth"))
		return
	}

	book, ok := s.exchange.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", symbol)
		return
	}

	d := book.Depth(depth)
	respondJSON(w, http.StatusOK, OrderbookResponse{
		Symbol: symbol,
		Bids:   s.levels(d.Bids),
		Asks:   s.levels(d.Asks),
	})
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if s.trades == nil {
		respondError(w, http.StatusNotFound, "trade history disabled", "")
		return
	}

	limit, err := queryInt(r, "limit", defaultTradeLimit)
	if err != nil || limit <= 0 {
		respondError(w, http.StatusBadRequest, "invalid limit", r.URL.Query().Get("limit"))
		return
	}
	limit = min(limit, maxTradeLimit)

	rows, err := s.trades.GetRecentBySymbol(r.Context(), symbol, limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), err,
			logger.NewField("action", "get_recent_trades"),
			logger.NewField("symbol", symbol),
		)
		respondError(w, http.StatusInternalServerError, "failed to load trades", "")
		return
	}

	response := make([]TradeInfo, 0, len(rows))
	for _, row := range rows {
		response = append(response, TradeInfo{
			ID:           row.ID,
			Symbol:       row.Symbol,
			Price:        json.Number(s.options.Scale.Format(row.Price)),
			Qty:          json.Number(s.options.Scale.Format(row.Quantity)),
			Side:         row.Side,
			TakerOrderID: row.TakerOrderID,
			MakerOrderID: row.MakerOrderID,
			Timestamp:    row.Timestamp.UnixMilli(),
		})
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required", "")
		return
	}

	var side orderbookv1.Side
	switch strings.ToLower(req.Side) {
	case "buy":
		side = orderbookv1.SideBuy
	case "sell":
		side = orderbookv1.SideSell
	default:
		respondError(w, http.StatusBadRequest, "side must be buy or sell", req.Side)
		return
	}

	price, err := s.options.Scale.FloorDecimal(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "price out of range", req.Price.String())
		return
	}
	qty, err := s.options.Scale.FloorDecimal(req.Qty)
	if err != nil {
		respondError(w, http.StatusBadRequest, "qty out of range", req.Qty.String())
		return
	}

	order := orderbookv1.NewOrder(s.newID(), qty, price, side)
	if err := order.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}

	id := order.ID
	record := orderreaderv1.EncodeOrderRecord(id, qty, price, side)
	if err := s.writer.WriteOrder(r.Context(), symbol, record); err != nil {
		s.logger.ErrorContext(r.Context(), err,
			logger.NewField("action", "write_order"),
			logger.NewField("symbol", symbol),
		)
		respondError(w, http.StatusInternalServerError, "failed to enqueue order", "")
		return
	}

	s.logger.InfoContext(r.Context(), "Order enqueued",
		logger.NewField("symbol", symbol),
		logger.NewField("orderID", id),
		logger.NewField("side", side.String()),
	)
	respondJSON(w, http.StatusOK, PlaceOrderResponse{Status: "success", OrderID: id})
}

func (s *Server) levels(summaries []orderbookv1.LevelSummary) []PriceLevel {
	levels := make([]PriceLevel, 0, len(summaries))
	for _, l := range summaries {
		levels = append(levels, PriceLevel{
			Price:  json.Number(s.options.Scale.Format(l.Price)),
			Qty:    json.Number(s.options.Scale.Format(l.Quantity)),
			Orders: l.Orders,
		})
	}
	return levels
}

func (s *Server) optionalNumber(v int64, present bool) *json.Number {
	if !present {
		return nil
	}
	n := json.Number(s.options.Scale.Format(v))
	return &n
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message, detail string) {
	respondJSON(w, status, ErrorResponse{Error: message, Message: detail})
}
