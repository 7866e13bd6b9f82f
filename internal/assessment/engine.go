// Package assessment maps damage metrics through the configured business
// thresholds into a categorical maintenance decision. Evaluate is a pure
// function: the same metrics and the same settings snapshot always produce a
// bit-identical assessment.
package assessment

import (
	"math"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/damage"
)

// Priority values, most severe first.
const (
	PriorityUrgent = "URGENT"
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// Risk levels.
const (
	RiskHigh    = "HIGH"
	RiskMedium  = "MEDIUM"
	RiskLow     = "LOW"
	RiskMinimal = "MINIMAL"
)

// Panel status values persisted to the panel image report table.
const (
	StatusNormal        = "정상"
	StatusContamination = "오염"
	StatusDamage        = "손상"
)

// Maintenance decisions persisted to the panel image report table.
const (
	DecisionNormal      = "정상"
	DecisionCleaning    = "단순오염"
	DecisionRepair      = "수리"
	DecisionReplacement = "교체"
)

// RequestStatusPending is the initial request lifecycle state for new reports.
const RequestStatusPending = "요청 중"

// Assessment is the categorical business decision derived from damage metrics.
type Assessment struct {
	Priority                        string   `json:"priority"`
	RiskLevel                       string   `json:"risk_level"`
	Recommendations                 []string `json:"recommendations"`
	EstimatedRepairCostKRW          int      `json:"estimated_repair_cost_krw"`
	EstimatedPerformanceLossPercent float64  `json:"estimated_performance_loss_percent"`
	MaintenanceUrgencyDays          int      `json:"maintenance_urgency_days"`
	BusinessImpact                  string   `json:"business_impact"`

	// Fields persisted to the panel image report table.
	Status        string `json:"status"`
	DamageDegree  int    `json:"damage_degree"`
	Decision      string `json:"decision"`
	RequestStatus string `json:"request_status"`
}

// Evaluate classifies damage metrics into one of four tiers, first matching
// rule wins, most severe rule evaluated first.
func Evaluate(m *damage.Metrics, settings *conf.AnalysisSettings) Assessment {
	t := settings.Thresholds

	var a Assessment
	a.RequestStatus = RequestStatusPending

	switch {
	case m.CriticalDamagePercentage >= t.Critical:
		a.Priority = PriorityUrgent
		a.RiskLevel = RiskHigh
		a.Decision = DecisionReplacement
		a.Status = StatusDamage
		a.MaintenanceUrgencyDays = 7
	case m.OverallDamagePercentage >= t.Urgent:
		a.Priority = PriorityHigh
		a.RiskLevel = RiskMedium
		a.Decision = DecisionRepair
		a.Status = StatusDamage
		a.MaintenanceUrgencyDays = 30
	case m.ContaminationPercentage >= t.Contamination:
		a.Priority = PriorityMedium
		a.RiskLevel = RiskLow
		a.Decision = DecisionCleaning
		a.Status = StatusContamination
		a.MaintenanceUrgencyDays = 30
	default:
		a.Priority = PriorityLow
		a.RiskLevel = RiskMinimal
		a.Decision = DecisionNormal
		a.Status = StatusNormal
		a.MaintenanceUrgencyDays = 365
	}

	a.DamageDegree = damageDegree(m)
	if a.Status == StatusNormal {
		// 정상 패널은 손상 정도를 0으로 기록한다
		a.DamageDegree = 0
	}

	a.EstimatedRepairCostKRW = estimateRepairCost(m, &a, &settings.Costs)
	a.EstimatedPerformanceLossPercent = estimatePerformanceLoss(m, &a, settings.MaxLoss)
	a.Recommendations = buildRecommendations(m, &a)
	a.BusinessImpact = assessBusinessImpact(m)

	return a
}

// damageDegree scores damage on a 0-100 scale with critical damage weighted
// double.
func damageDegree(m *damage.Metrics) int {
	weighted := 2*m.CriticalDamagePercentage + m.OverallDamagePercentage
	return int(math.Min(math.Round(weighted), 100))
}

// estimateRepairCost prices the decision: a fixed replacement constant for
// 교체, otherwise the overall damage percentage times the per-point repair
// rate.
func estimateRepairCost(m *damage.Metrics, a *Assessment, costs *conf.CostSettings) int {
	if a.Decision == DecisionReplacement {
		return costs.Replacement
	}
	return int(math.Round(m.OverallDamagePercentage * float64(costs.RepairPerPoint)))
}

// estimatePerformanceLoss derives the expected generation loss from visual
// damage. The loss saturates below maxLoss so partial visual damage never
// claims total loss; only the URGENT tier may report the full range, matching
// the documented 100% overall / 80% loss case.
func estimatePerformanceLoss(m *damage.Metrics, a *Assessment, maxLoss float64) float64 {
	loss := m.OverallDamagePercentage * 0.8
	ceiling := maxLoss
	if a.Priority == PriorityUrgent {
		ceiling = 100
	}
	return math.Round(math.Min(loss, ceiling)*10) / 10
}

func assessBusinessImpact(m *damage.Metrics) string {
	switch {
	case m.CriticalDamagePercentage > 15:
		return "심각한 수익 손실 예상 - 즉시 조치 필요"
	case m.OverallDamagePercentage > 40:
		return "상당한 성능 저하 - 신속한 대응 필요"
	case m.OverallDamagePercentage > 20:
		return "경미한 성능 영향 - 계획적 유지보수 권장"
	default:
		return "정상 운영 중 - 예방적 유지보수 유지"
	}
}
