package datastore

import "time"

// PanelImageReport is the persisted outcome of one damage analysis request.
type PanelImageReport struct {
	ID            uint      `gorm:"primaryKey"`
	PanelID       int       `gorm:"index"`
	UserID        int       `gorm:"index"`
	Status        string    // 정상, 오염, 손상
	DamageDegree  int       // 0-100
	Decision      string    // 정상, 단순오염, 수리, 교체
	RequestStatus string    // request lifecycle state
	CreatedAt     time.Time `gorm:"index"`
}

// PerformanceRecord is the persisted outcome of one performance analysis
// request.
type PerformanceRecord struct {
	ID                  uint `gorm:"primaryKey"`
	PanelID             int  `gorm:"index"`
	UserID              int  `gorm:"index"`
	PredictedGeneration float64
	ActualGeneration    float64
	PerformanceRatio    float64
	Status              string // 정상, 미흡, 불량
	LifespanMonths      float64
	EstimatedCost       int
	ReportPath          string
	CreatedAt           time.Time `gorm:"index"`
}
