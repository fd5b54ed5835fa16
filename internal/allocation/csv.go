package allocation

import (
	"fmt"

	"steady-drip/internal/domain"

	"github.com/gocarina/gocsv"
)

// ExportCSV renders the plan table as delimited text with the same
// columns as the JSON lines.
func ExportCSV(plan *domain.AllocationPlan) ([]byte, error) {
	out, err := gocsv.MarshalString(&plan.Lines)
	if err != nil {
		return nil, fmt.Errorf("marshal plan csv: %w", err)
	}
	return []byte(out), nil
}
