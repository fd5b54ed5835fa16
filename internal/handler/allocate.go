package handler

import (
	"errors"
	"net/http"

	"steady-drip/internal/allocation"
	"steady-drip/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type allocateRequest struct {
	Cash    string `json:"cash" binding:"required"`
	Regime  string `json:"regime"`
	Explain bool   `json:"explain"`
}

// Allocate godoc
// @Summary      Compute this period's allocation plan
// @Description  Tilts the configured target weights by technical signals and the selected macro regime, then splits the cash amount across the basket
// @Tags         allocation
// @Accept       json
// @Produce      json
// @Param        request  body  allocateRequest  true  "Cash (free text, comma or period decimals) and regime selection"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/allocate [post]
func (h *Handler) Allocate(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.allocate")
	defer span.End()

	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	span.SetAttributes(attribute.String("regime", req.Regime))

	plan, err := h.planService.BuildPlan(ctx, req.Cash, req.Regime)
	if err != nil {
		h.renderPlanError(c, err)
		return
	}

	resp := gin.H{"plan": plan}
	if req.Explain && h.advisorService != nil {
		resp["commentary"] = h.advisorService.ExplainPlan(ctx, plan)
	}
	c.JSON(http.StatusOK, resp)
}

// AllocateCSV godoc
// @Summary      Compute an allocation plan as delimited text
// @Description  Same computation as POST /api/allocate, rendered as CSV for spreadsheet import
// @Tags         allocation
// @Produce      text/csv
// @Param        cash    query  string  true   "Cash amount (comma or period decimals)"
// @Param        regime  query  string  false  "Regime selection"  default(balanced)
// @Success      200  {string}  string
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/allocate/csv [get]
func (h *Handler) AllocateCSV(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.allocate-csv")
	defer span.End()

	plan, err := h.planService.BuildPlan(ctx, c.Query("cash"), c.DefaultQuery("regime", "balanced"))
	if err != nil {
		h.renderPlanError(c, err)
		return
	}

	data, err := allocation.ExportCSV(plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ticker-plan.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// renderPlanError maps pipeline errors to user-visible responses. Nothing
// is swallowed: incomplete baskets report every failed ticker.
func (h *Handler) renderPlanError(c *gin.Context, err error) {
	var ib *domain.IncompleteBasketError
	switch {
	case errors.Is(err, domain.ErrInvalidCash):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &ib):
		reasons := make(map[string]string, len(ib.Reasons))
		for ticker, rerr := range ib.Reasons {
			reasons[ticker] = rerr.Error()
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   ib.Error(),
			"missing": ib.Missing,
			"reasons": reasons,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
