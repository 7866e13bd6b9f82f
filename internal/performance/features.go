package performance

import (
	"time"

	"github.com/solarscan/solarscan-go/internal/environment"
)

// Features is the model input vector sent to the ensemble predictor. The
// predictor service owns the encoding of categorical fields; the boundary
// carries them as plain values.
type Features struct {
	PMPRatedW             float64 `json:"pmp_rated_w"`
	TempCoeffPerK         float64 `json:"temp_coeff_per_k"`
	AnnualDegradationRate float64 `json:"annual_degradation_rate"`
	InstallAngle          float64 `json:"install_angle"`
	AvgTemp               float64 `json:"avg_temp"`
	AvgHumidity           float64 `json:"avg_humidity"`
	AvgWindspeed          float64 `json:"avg_windspeed"`
	AvgSunshine           float64 `json:"avg_sunshine"`
	ElapsedMonths         float64 `json:"elapsed_months"`
	PanelModel            string  `json:"panel_model"`
	InstallDirection      string  `json:"install_direction"`
	Region                string  `json:"region"`
}

// BuildFeatures assembles the model features from a panel spec and the
// reduced environment summary.
func BuildFeatures(spec *PanelSpec, env *environment.Summary, now time.Time) Features {
	return Features{
		PMPRatedW:             spec.PMPRatedW,
		TempCoeffPerK:         spec.TempCoeff,
		AnnualDegradationRate: spec.AnnualDegradationRate,
		InstallAngle:          spec.InstalledAngle,
		AvgTemp:               env.Temperature.Average,
		AvgHumidity:           env.Humidity.Average,
		AvgWindspeed:          env.WindSpeed.Average,
		AvgSunshine:           env.Sunshine.Average,
		ElapsedMonths:         spec.ElapsedMonths(now),
		PanelModel:            spec.ModelName,
		InstallDirection:      spec.InstalledDirection,
		Region:                regionOf(spec.Lat),
	}
}

// regionOf buckets a latitude into the model's training regions.
func regionOf(lat float64) string {
	switch {
	case lat > 37.5:
		return "Seoul"
	case lat > 36.0:
		return "Daejeon"
	case lat > 35.0:
		return "Daegu"
	default:
		return "Busan"
	}
}
