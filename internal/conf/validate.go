// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateAnalysisSettings(&settings.Analysis); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validatePerformanceSettings(&settings.Performance); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDetectorSettings(&settings.Detector); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateAnalysisSettings validates thresholds and the cost table. Missing or
// nonsensical thresholds are a startup failure, never a per-request default.
func validateAnalysisSettings(settings *AnalysisSettings) error {
	var errs []string

	t := settings.Thresholds
	if t.Critical <= 0 || t.Critical > 100 {
		errs = append(errs, "critical damage threshold must be in (0, 100]")
	}
	if t.Urgent <= 0 || t.Urgent > 100 {
		errs = append(errs, "urgent damage threshold must be in (0, 100]")
	}
	if t.Contamination <= 0 || t.Contamination > 100 {
		errs = append(errs, "contamination threshold must be in (0, 100]")
	}

	if settings.Costs.RepairPerPoint < 0 {
		errs = append(errs, "repair cost per point must not be negative")
	}
	if settings.Costs.Replacement <= 0 {
		errs = append(errs, "replacement cost must be positive")
	}

	if settings.MaxLoss <= 0 || settings.MaxLoss > 100 {
		errs = append(errs, "max performance loss must be in (0, 100]")
	}

	if len(errs) > 0 {
		return fmt.Errorf("analysis settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validatePerformanceSettings validates the performance estimator settings
func validatePerformanceSettings(settings *PerformanceSettings) error {
	var errs []string

	if settings.NormalRatio <= 0 || settings.NormalRatio > 1 {
		errs = append(errs, "normal performance ratio must be in (0, 1]")
	}
	if settings.FairRatio <= 0 || settings.FairRatio >= settings.NormalRatio {
		errs = append(errs, "fair performance ratio must be positive and below the normal ratio")
	}
	if settings.EndOfLifeFraction <= 0 || settings.EndOfLifeFraction >= 1 {
		errs = append(errs, "end-of-life fraction must be in (0, 1)")
	}
	if settings.CeilingMonths <= 0 {
		errs = append(errs, "lifespan ceiling months must be positive")
	}
	if settings.CostPerWatt < 0 {
		errs = append(errs, "cost per watt must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("performance settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateDetectorSettings validates the detector collaborator settings
func validateDetectorSettings(settings *DetectorSettings) error {
	var errs []string

	if settings.Endpoint == "" {
		errs = append(errs, "detector endpoint must not be empty")
	}
	if settings.MinConfidence < 0 || settings.MinConfidence > 1 {
		errs = append(errs, "detector minimum confidence must be between 0 and 1")
	}
	if settings.Timeout <= 0 {
		errs = append(errs, "detector timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("detector settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateWebServerSettings validates the web server settings
func validateWebServerSettings(settings *WebServerSettings) error {
	if !settings.Enabled {
		return nil
	}
	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("web server port must be a valid port number between 1 and 65535")
	}
	return nil
}

// validateOutputSettings validates the result storage settings
func validateOutputSettings(settings *OutputSettings) error {
	if settings.SQLite.Enabled && settings.MySQL.Enabled {
		return fmt.Errorf("only one result store may be enabled, got both sqlite and mysql")
	}
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return fmt.Errorf("sqlite output enabled but path is empty")
	}
	if settings.MySQL.Enabled {
		var errs []string
		if settings.MySQL.Host == "" {
			errs = append(errs, "mysql host must not be empty")
		}
		if settings.MySQL.Database == "" {
			errs = append(errs, "mysql database must not be empty")
		}
		if _, err := strconv.Atoi(settings.MySQL.Port); err != nil {
			errs = append(errs, "mysql port must be numeric")
		}
		if len(errs) > 0 {
			return fmt.Errorf("mysql settings errors: %s", strings.Join(errs, "; "))
		}
	}
	return nil
}
