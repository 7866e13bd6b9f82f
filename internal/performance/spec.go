// Package performance combines panel specifications, reduced environmental
// features and the ensemble prediction into a generation assessment with a
// degradation-based lifespan projection.
package performance

import (
	"time"

	"github.com/solarscan/solarscan-go/internal/errors"
)

// installDateLayout is the wire format of panel installation dates.
const installDateLayout = "2006-01-02"

// avgDaysPerMonth converts elapsed days to calendar months.
const avgDaysPerMonth = 30.44

// PanelSpec holds the static attributes of a panel. Owned by the external
// catalog; read-only input to the estimator.
type PanelSpec struct {
	ModelName             string  `json:"model_name"`
	SerialNumber          int     `json:"serial_number"`
	PMPRatedW             float64 `json:"pmp_rated_w"`
	TempCoeff             float64 `json:"temp_coeff"`
	AnnualDegradationRate float64 `json:"annual_degradation_rate"`
	Lat                   float64 `json:"lat"`
	Lon                   float64 `json:"lon"`
	InstalledAt           string  `json:"installed_at"` // YYYY-MM-DD
	InstalledAngle        float64 `json:"installed_angle"`
	InstalledDirection    string  `json:"installed_direction"`
}

// Validate rejects specs with missing required fields before any computation.
func (p *PanelSpec) Validate() error {
	var errs []error
	if p.ModelName == "" {
		errs = append(errs, errors.Newf("panel model name is required").Build())
	}
	if p.PMPRatedW <= 0 {
		errs = append(errs, errors.Newf("panel rated power must be positive, got %v", p.PMPRatedW).Build())
	}
	if p.AnnualDegradationRate >= 1 {
		errs = append(errs, errors.Newf("annual degradation rate %v must be a fraction below 1", p.AnnualDegradationRate).Build())
	}
	if _, err := time.Parse(installDateLayout, p.InstalledAt); err != nil {
		errs = append(errs, errors.Newf("installation date %q is not a valid %s date", p.InstalledAt, installDateLayout).Build())
	}
	if len(errs) > 0 {
		return errors.New(errors.Join(errs...)).
			Component("performance").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// ElapsedMonths returns the panel age in months at the reference time.
// A spec that fails Validate yields 0.
func (p *PanelSpec) ElapsedMonths(now time.Time) float64 {
	installed, err := time.Parse(installDateLayout, p.InstalledAt)
	if err != nil {
		return 0
	}
	days := now.Sub(installed).Hours() / 24
	if days < 0 {
		return 0
	}
	return days / avgDaysPerMonth
}
