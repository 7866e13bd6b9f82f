package assessment

import (
	"math"

	"github.com/solarscan/solarscan-go/internal/errors"
)

// Fleet status values, most severe first.
const (
	FleetCritical       = "CRITICAL"
	FleetNeedsAttention = "NEEDS_ATTENTION"
	FleetFair           = "FAIR"
	FleetGood           = "GOOD"
)

// criticalPanelFloor is the critical damage percentage above which a panel
// counts toward the fleet's critical panel ratio.
const criticalPanelFloor = 5.0

// FleetPanel is one panel's contribution to a fleet summary.
type FleetPanel struct {
	OverallDamagePercentage  float64
	CriticalDamagePercentage float64
	Priority                 string
}

// FleetSummary aggregates a batch of per-panel assessments into one
// fleet-level view.
type FleetSummary struct {
	TotalAnalyzedPanels      int            `json:"total_analyzed_panels"`
	AverageDamagePercentage  float64        `json:"average_damage_percentage"`
	CriticalPanelsCount      int            `json:"critical_panels_count"`
	CriticalPanelsPercentage float64        `json:"critical_panels_percentage"`
	PriorityDistribution     map[string]int `json:"priority_distribution"`
	OverallFleetStatus       string         `json:"overall_fleet_status"`
	RecommendedAction        string         `json:"recommended_action"`
}

// SummarizeFleet reduces per-panel outcomes to fleet metrics and the fleet
// status/action classification. An empty batch is a validation error, not a
// zeroed summary.
func SummarizeFleet(panels []FleetPanel) (FleetSummary, error) {
	if len(panels) == 0 {
		return FleetSummary{}, errors.Newf("fleet summary requires at least one analyzed panel").
			Component("assessment").
			Category(errors.CategoryValidation).
			Build()
	}

	total := len(panels)
	damageSum := 0.0
	criticalCount := 0
	distribution := make(map[string]int)

	for i := range panels {
		p := &panels[i]
		damageSum += p.OverallDamagePercentage
		if p.CriticalDamagePercentage > criticalPanelFloor {
			criticalCount++
		}
		distribution[p.Priority]++
	}

	avgDamage := damageSum / float64(total)
	criticalRatio := float64(criticalCount) / float64(total)

	return FleetSummary{
		TotalAnalyzedPanels:      total,
		AverageDamagePercentage:  math.Round(avgDamage*100) / 100,
		CriticalPanelsCount:      criticalCount,
		CriticalPanelsPercentage: math.Round(criticalRatio*1000) / 10,
		PriorityDistribution:     distribution,
		OverallFleetStatus:       fleetStatus(avgDamage, criticalRatio),
		RecommendedAction:        fleetAction(avgDamage, criticalRatio),
	}, nil
}

// fleetStatus grades the fleet by critical panel ratio and average damage.
func fleetStatus(avgDamage, criticalRatio float64) string {
	switch {
	case criticalRatio > 0.3 || avgDamage > 40:
		return FleetCritical
	case criticalRatio > 0.1 || avgDamage > 25:
		return FleetNeedsAttention
	case avgDamage > 10:
		return FleetFair
	default:
		return FleetGood
	}
}

// fleetAction recommends the fleet-wide maintenance response.
func fleetAction(avgDamage, criticalRatio float64) string {
	switch {
	case criticalRatio > 0.3:
		return "즉시 전면적인 점검 및 수리 필요"
	case criticalRatio > 0.1:
		return "우선순위 기반 단계적 수리 권장"
	case avgDamage > 15:
		return "정기 청소 및 예방적 유지보수 강화"
	default:
		return "현재 유지보수 수준 유지"
	}
}
