package handler

import (
	"steady-drip/internal/advisor"
	"steady-drip/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer         trace.Tracer
	planService    *service.PlanService
	historyService *service.HistoryService
	advisorService *advisor.AdvisorService
}

func New(tracer trace.Tracer, planService *service.PlanService, historyService *service.HistoryService) *Handler {
	return &Handler{
		tracer:         tracer,
		planService:    planService,
		historyService: historyService,
	}
}

// SetAdvisor enables optional plan commentary.
func (h *Handler) SetAdvisor(a *advisor.AdvisorService) {
	h.advisorService = a
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/regimes", h.GetRegimes)
	r.GET("/api/signals", h.GetAllSignals)
	r.GET("/api/signals/:ticker", h.GetSignals)
	r.GET("/api/history/:ticker", h.GetHistory)
	r.POST("/api/allocate", h.Allocate)
	r.GET("/api/allocate/csv", h.AllocateCSV)
}
