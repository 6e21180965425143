package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/services/portfolio"
	"github.com/foliotrack/folio/internal/services/pricing"
	"github.com/foliotrack/folio/internal/storage"
)

const dateLayout = "2006-01-02"

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrInvalidInput), errors.Is(err, portfolio.ErrFutureDate):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, portfolio.ErrPortfolioExists):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, portfolio.ErrHoldingNotFound), errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrPriceUnavailable):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}

// --- Portfolio handlers ---

// handlePortfolios handles /api/portfolios (list and create).
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names, err := s.app.PortfolioService.ListPortfolios(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"portfolios": names,
		})
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		p, err := s.app.PortfolioService.CreatePortfolio(r.Context(), strings.TrimSpace(req.Name))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, p)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routePortfolios dispatches /api/portfolios/{name}[/...] to the
// appropriate handler.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "portfolio name is required in path")
		return
	}

	parts := strings.SplitN(path, "/", 3)
	name := parts[0]

	if len(parts) == 1 {
		s.handlePortfolio(w, r, name)
		return
	}

	switch parts[1] {
	case "holdings":
		ticker := ""
		if len(parts) == 3 {
			ticker = parts[2]
		}
		s.handleHoldings(w, r, name, ticker)
	case "summary":
		s.handlePortfolioSummary(w, r, name)
	case "value":
		s.handlePortfolioValue(w, r, name)
	case "yearly":
		s.handlePortfolioYearly(w, r, name)
	case "chart.png":
		s.handlePortfolioChart(w, r, name)
	default:
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown portfolio endpoint: %s", parts[1]))
	}
}

// handlePortfolio handles GET and DELETE on /api/portfolios/{name}.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.app.PortfolioService.GetPortfolio(r.Context(), name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if err := s.app.PortfolioService.DeletePortfolio(r.Context(), name); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"deleted": name,
		})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleHoldings handles POST /api/portfolios/{name}/holdings and
// DELETE /api/portfolios/{name}/holdings/{ticker}.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request, name, ticker string) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Ticker string `json:"ticker"`
			Shares int64  `json:"shares"`
			Date   string `json:"date"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}

		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", req.Date))
			return
		}

		p, err := s.app.PortfolioService.Purchase(r.Context(), name, req.Ticker, req.Shares, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if ticker == "" {
			WriteError(w, http.StatusBadRequest, "ticker is required in path")
			return
		}
		p, err := s.app.PortfolioService.RemoveHolding(r.Context(), name, ticker)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, p)
	default:
		RequireMethod(w, r, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	report, err := s.app.PortfolioService.Summary(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handlePortfolioValue handles GET /api/portfolios/{name}/value?date=YYYY-MM-DD.
// Date defaults to today.
func (s *Server) handlePortfolioValue(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	date := time.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse(dateLayout, q)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", q))
			return
		}
		date = parsed
	}

	v, err := s.app.PortfolioService.ValueAt(r.Context(), name, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

func (s *Server) handlePortfolioYearly(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, err := s.app.PortfolioService.YearlySeries(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio": name,
		"years":     series,
	})
}

// handlePortfolioChart handles GET /api/portfolios/{name}/chart.png.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	points, err := s.app.PortfolioService.DailySeries(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	png, err := portfolio.RenderValueChart(name, points)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Filings handlers ---

// handleFilings handles GET /api/filings/{ticker}?forms=10-K,10-Q&count=5.
func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.TrimPrefix(r.URL.Path, "/api/filings/")
	if ticker == "" || strings.Contains(ticker, "/") {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	var formTypes []string
	if forms := r.URL.Query().Get("forms"); forms != "" {
		for _, f := range strings.Split(forms, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formTypes = append(formTypes, f)
			}
		}
	}

	count := 0
	if q := r.URL.Query().Get("count"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid count %q", q))
			return
		}
		count = n
	}

	filings, err := s.app.FilingsService.List(r.Context(), ticker, formTypes, count)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  strings.ToUpper(ticker),
		"filings": filings,
	})
}
