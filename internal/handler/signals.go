package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetAllSignals godoc
// @Summary      Get signal readouts for the whole basket
// @Description  Returns price, drawdown, moving-average distance, z-score, volatility, and data source per configured ticker; failed tickers are reported alongside
// @Tags         signals
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/signals [get]
func (h *Handler) GetAllSignals(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-all-signals")
	defer span.End()

	sigs, failures := h.planService.BasketSignals(ctx)

	errs := make(map[string]string, len(failures))
	for ticker, err := range failures {
		errs[ticker] = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{"signals": sigs, "errors": errs})
}

// GetSignals godoc
// @Summary      Get signal readouts for one ticker
// @Tags         signals
// @Produce      json
// @Param        ticker  path  string  true  "Basket ticker (e.g., SPYM)"
// @Success      200  {object}  domain.AssetSignals
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/signals/{ticker} [get]
func (h *Handler) GetSignals(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-signals")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	basket := h.planService.Basket()
	if !basket.Contains(ticker) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "ticker not in basket: " + ticker,
			"basket_tickers": basket.Tickers(),
		})
		return
	}

	sig, err := h.historyService.GetSignals(ctx, ticker)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sig)
}

// GetHistory godoc
// @Summary      Get stored daily bars for one ticker
// @Tags         signals
// @Produce      json
// @Param        ticker  path   string  true   "Basket ticker"
// @Param        limit   query  int     false  "Number of bars (default 200, max 500)"  default(200)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/history/{ticker} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	basket := h.planService.Basket()
	if !basket.Contains(ticker) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "ticker not in basket: " + ticker,
			"basket_tickers": basket.Tickers(),
		})
		return
	}

	limit := 200
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-500"})
			return
		}
		limit = n
	}

	bars, err := h.historyService.GetBars(ctx, ticker, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "bars": bars})
}
