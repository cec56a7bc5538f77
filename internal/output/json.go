package output

import (
	"encoding/json"
	"fmt"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// JSONFormatter writes the full projection result as indented JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no projection data to format")
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal projection result: %w", err)
	}
	return append(data, '\n'), nil
}
