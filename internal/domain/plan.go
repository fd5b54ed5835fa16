package domain

import "time"

// AllocationStatus is a derived display label comparing final weight to
// target weight. It plays no part in the allocation math.
type AllocationStatus string

const (
	StatusBalanced    AllocationStatus = "balanced"
	StatusOpportunity AllocationStatus = "opportunity"
	StatusTrimmed     AllocationStatus = "risk-trimmed"
)

// PlanLine is one ticker's row in an allocation plan.
type PlanLine struct {
	Ticker       string           `json:"ticker" csv:"ticker"`
	Price        float64          `json:"price" csv:"price"`
	Drawdown     float64          `json:"drawdown" csv:"drawdown"`
	SMADistance  float64          `json:"sma_distance" csv:"sma_distance"`
	ZScore       float64          `json:"z_score" csv:"z_score"`
	Volatility   float64          `json:"volatility" csv:"volatility"`
	Source       string           `json:"source" csv:"source"`
	TargetWeight float64          `json:"target_weight" csv:"target_weight"`
	FinalWeight  float64          `json:"final_weight" csv:"final_weight"`
	DollarAmount float64          `json:"dollar_amount" csv:"dollar_amount"`
	Units        float64          `json:"units" csv:"units"`
	Status       AllocationStatus `json:"status" csv:"status"`
}

// AllocationPlan is the full per-period result. Invariants: final weights
// sum to 1.0 and dollar amounts sum to Cash, both within floating point
// tolerance.
type AllocationPlan struct {
	Cash        float64    `json:"cash"`
	Regime      Regime     `json:"regime"`
	Lines       []PlanLine `json:"lines"`
	GeneratedAt time.Time  `json:"generated_at"`
}
