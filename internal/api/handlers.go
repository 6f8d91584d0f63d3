package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"fxrates/internal/rates"
	"fxrates/internal/service"
)

// RateResponse represents a single rate lookup
type RateResponse struct {
	Base   string  `json:"base,omitempty" example:"EUR"`
	Symbol string  `json:"symbol" example:"USD"`
	Date   string  `json:"date,omitempty" example:"2026-01-02"`
	Rate   float64 `json:"rate" example:"1.2"`
}

// PointResponse is one dated entry of a period lookup. Rate is omitted when the
// snapshot for that date had no rate for the symbol.
type PointResponse struct {
	Date string   `json:"date" example:"2026-01-02"`
	Rate *float64 `json:"rate,omitempty" example:"1.21"`
}

// PeriodResponse represents the rates of one symbol over a date range
type PeriodResponse struct {
	Symbol string          `json:"symbol" example:"USD"`
	Start  string          `json:"start" example:"2026-01-01"`
	End    string          `json:"end" example:"2026-01-03"`
	Points []PointResponse `json:"points"`
}

// ConvertResponse represents an amount conversion
type ConvertResponse struct {
	From   string `json:"from" example:"EUR"`
	To     string `json:"to" example:"USD"`
	Amount string `json:"amount" example:"10"`
	Result string `json:"result" example:"12"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Status string `json:"status" example:"ready"`
}

// HandleGetLatestRate godoc
// @Summary Get the latest rate for a currency
// @Description Without base, returns the rate of symbol in the source's default base currency. With base, returns how many units of symbol one unit of base buys.
// @Tags rates
// @Produce json
// @Param symbol query string true "Currency code (3 letters)" minlength(3) maxlength(3)
// @Param base query string false "Base currency code (3 letters)" minlength(3) maxlength(3)
// @Success 200 {object} RateResponse "Rate found"
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 404 {object} ErrorResponse "Source has no rate for the symbol"
// @Failure 422 {object} ErrorResponse "Currency is not supported"
// @Failure 502 {object} ErrorResponse "Upstream error"
// @Router /rates/latest [get]
func HandleGetLatestRate(svc service.RateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol, err := service.NormalizeCode(r.URL.Query().Get("symbol"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "symbol: "+err.Error())
			return
		}

		rawBase := r.URL.Query().Get("base")
		if rawBase == "" {
			v, ok, err := svc.RateInBaseCurrency(r.Context(), symbol)
			if err != nil {
				writeLookupError(w, err, symbol)
				return
			}
			if !ok {
				writeLookupError(w, service.ErrRateUnavailable, symbol)
				return
			}
			writeJSON(w, http.StatusOK, RateResponse{Symbol: symbol, Rate: v})
			return
		}

		base, err := service.NormalizeCode(rawBase)
		if err != nil {
			writeError(w, http.StatusBadRequest, "base: "+err.Error())
			return
		}
		v, ok, err := svc.Rate(r.Context(), symbol, base)
		if err != nil {
			writeLookupError(w, err, base)
			return
		}
		if !ok {
			writeLookupError(w, service.ErrRateUnavailable, symbol)
			return
		}
		writeJSON(w, http.StatusOK, RateResponse{Base: base, Symbol: symbol, Rate: v})
	}
}

// HandleGetHistoricalRate godoc
// @Summary Get the rate for a currency on a date
// @Description Returns the rate of symbol in the source's default base currency on the given date.
// @Tags rates
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)" format(date)
// @Param symbol query string true "Currency code (3 letters)" minlength(3) maxlength(3)
// @Success 200 {object} RateResponse "Rate found"
// @Failure 400 {object} ErrorResponse "Invalid date or currency code"
// @Failure 404 {object} ErrorResponse "Source has no rate for the symbol"
// @Failure 422 {object} ErrorResponse "Currency is not supported"
// @Failure 502 {object} ErrorResponse "Upstream error"
// @Router /rates/historical/{date} [get]
func HandleGetHistoricalRate(svc service.RateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := rates.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		symbol, err := service.NormalizeCode(r.URL.Query().Get("symbol"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "symbol: "+err.Error())
			return
		}

		v, ok, err := svc.RateOnDate(r.Context(), date, symbol)
		if err != nil {
			writeLookupError(w, err, symbol)
			return
		}
		if !ok {
			writeLookupError(w, service.ErrRateUnavailable, symbol)
			return
		}
		writeJSON(w, http.StatusOK, RateResponse{Symbol: symbol, Date: rates.FormatDate(date), Rate: v})
	}
}

// HandleGetPeriodRates godoc
// @Summary Get the rates of a currency over a date range
// @Description Returns one entry per date the source published within [start, end], in the source's order. Dates without a rate for the symbol carry no rate field.
// @Tags rates
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)" format(date)
// @Param end query string true "End date (YYYY-MM-DD)" format(date)
// @Param symbol query string true "Currency code (3 letters)" minlength(3) maxlength(3)
// @Success 200 {object} PeriodResponse "Rates over the period"
// @Failure 400 {object} ErrorResponse "Invalid dates or currency code"
// @Failure 422 {object} ErrorResponse "Currency is not supported"
// @Failure 502 {object} ErrorResponse "Upstream error"
// @Router /rates/period [get]
func HandleGetPeriodRates(svc service.RateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		start, err := rates.ParseDate(q.Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		end, err := rates.ParseDate(q.Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
			return
		}
		symbol, err := service.NormalizeCode(q.Get("symbol"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "symbol: "+err.Error())
			return
		}

		points, err := svc.RatesOverPeriod(r.Context(), start, end, symbol)
		if err != nil {
			writeLookupError(w, err, symbol)
			return
		}

		writeJSON(w, http.StatusOK, PeriodResponse{
			Symbol: symbol,
			Start:  rates.FormatDate(start),
			End:    rates.FormatDate(end),
			Points: lo.Map(points, func(p rates.Point, _ int) PointResponse {
				resp := PointResponse{Date: rates.FormatDate(p.Date)}
				if p.Found {
					resp.Rate = lo.ToPtr(p.Value)
				}
				return resp
			}),
		})
	}
}

// HandleConvert godoc
// @Summary Convert an amount between currencies
// @Description Multiplies amount by the latest rate of to with from as the base currency.
// @Tags rates
// @Produce json
// @Param from query string true "Source currency code (3 letters)" minlength(3) maxlength(3)
// @Param to query string true "Target currency code (3 letters)" minlength(3) maxlength(3)
// @Param amount query string true "Decimal amount" example(10.50)
// @Success 200 {object} ConvertResponse "Converted amount"
// @Failure 400 {object} ErrorResponse "Invalid amount or currency code"
// @Failure 404 {object} ErrorResponse "Source has no rate for the pair"
// @Failure 422 {object} ErrorResponse "Currency is not supported"
// @Failure 502 {object} ErrorResponse "Upstream error"
// @Router /convert [get]
func HandleConvert(svc service.RateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, err := service.NormalizeCode(q.Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "from: "+err.Error())
			return
		}
		to, err := service.NormalizeCode(q.Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "to: "+err.Error())
			return
		}
		amount, err := decimal.NewFromString(q.Get("amount"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "amount must be a decimal number")
			return
		}

		result, err := svc.Convert(r.Context(), amount, from, to)
		if err != nil {
			writeLookupError(w, err, from)
			return
		}

		writeJSON(w, http.StatusOK, ConvertResponse{
			From:   from,
			To:     to,
			Amount: amount.String(),
			Result: result.String(),
		})
	}
}

// HandleHealthz godoc
// @Summary Health check (liveness)
// @Description Always returns 200 OK if the service is running. Used for liveness probes.
// @Tags health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}
}

// HandleReadyz godoc
// @Summary Readiness check
// @Description Pings the Redis instances in use (snapshot cache and asynq). Returns 200 only when all of them are reachable.
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse "All dependencies ready"
// @Failure 503 {object} ErrorResponse "At least one dependency unavailable"
// @Router /readyz [get]
func HandleReadyz(cache, asynqRedis *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache != nil {
			if err := cache.Ping(r.Context()).Err(); err != nil {
				writeError(w, http.StatusServiceUnavailable, "Cache not ready")
				return
			}
		}

		if asynqRedis != nil {
			if err := asynqRedis.Ping(r.Context()).Err(); err != nil {
				writeError(w, http.StatusServiceUnavailable, "Asynq Redis not ready")
				return
			}
		}

		writeJSON(w, http.StatusOK, ReadyResponse{Status: "ready"})
	}
}
