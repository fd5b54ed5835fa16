package handler

import (
	"net/http"

	"steady-drip/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetRegimes godoc
// @Summary      List selectable macro regimes
// @Description  Returns every regime with its per-ticker additive sentiment adjustments
// @Tags         allocation
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/regimes [get]
func (h *Handler) GetRegimes(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-regimes")
	defer span.End()

	regimes := make([]gin.H, 0, len(domain.SupportedRegimes))
	for _, r := range domain.SupportedRegimes {
		regimes = append(regimes, gin.H{
			"name":        string(r),
			"adjustments": r.Adjustments(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"regimes": regimes})
}
