package assessment

import (
	"github.com/solarscan/solarscan-go/internal/damage"
)

// Fixed recommendation strings selected by the fired rule.
var tierRecommendations = map[string][]string{
	PriorityUrgent: {
		"즉시 전문가 점검 필요",
		"해당 패널 가동 중단 권장",
	},
	PriorityHigh: {
		"신속한 수리 일정 수립 필요",
		"전문가 점검 권장",
	},
	PriorityMedium: {
		"패널 청소 필요",
	},
	PriorityLow: {
		"정상 상태 - 정기 점검 유지",
	},
}

// Class-specific messages appended when the class appears in the breakdown.
// Registry order keeps the output deterministic.
var classMessages = []struct {
	class   string
	message string
}{
	{"Bird-drop", "조류 배설물 제거 권장"},
	{"Dusty", "먼지 및 오염물질 세척 권장"},
	{"Snow", "안전한 제설 작업 필요"},
	{"Physical-Damage", "물리적 손상 - 안전상 즉시 조치 필요"},
	{"Electrical-Damage", "전기적 손상 - 전문가 점검 필수"},
}

// buildRecommendations returns the ordered recommendation list for an
// assessment: the fired rule's fixed strings first, then every applicable
// class-specific message, not just the first.
func buildRecommendations(m *damage.Metrics, a *Assessment) []string {
	recs := make([]string, 0, 4)
	recs = append(recs, tierRecommendations[a.Priority]...)

	for _, cm := range classMessages {
		if _, present := m.ClassBreakdown[cm.class]; present {
			recs = append(recs, cm.message)
		}
	}

	return recs
}
