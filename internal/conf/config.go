// config.go: This file contains the configuration for the SolarScan-Go application. It defines the settings struct and functions to load and access the settings.
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to log file
}

// MainSettings contains general application settings
type MainSettings struct {
	Name string    // name of the node, can be used to identify the source of analysis requests
	Log  LogConfig // main log configuration
}

// ThresholdSettings contains the damage classification thresholds used by the
// business rule engine. All three are percentages in (0, 100].
type ThresholdSettings struct {
	Critical      float64 // critical damage percentage that forces panel replacement
	Urgent        float64 // overall damage percentage that forces repair
	Contamination float64 // contamination percentage that triggers cleaning
}

// CostSettings contains the cost table for repair estimates, in KRW.
type CostSettings struct {
	RepairPerPoint int // repair cost per overall damage percentage point
	Replacement    int // fixed panel replacement cost (material + disposal + labor)
}

// AnalysisSettings contains settings for the damage analysis pipeline.
type AnalysisSettings struct {
	Thresholds ThresholdSettings // business rule thresholds
	Costs      CostSettings      // repair/replacement cost table
	MaxLoss    float64           // cap for estimated performance loss percent
}

// PerformanceSettings contains settings for the performance estimator.
type PerformanceSettings struct {
	NormalRatio       float64 // performance ratio at or above which a panel is 정상
	FairRatio         float64 // performance ratio at or above which a panel is 미흡
	EndOfLifeFraction float64 // fraction of rated output considered end-of-life
	CeilingMonths     float64 // lifespan ceiling for non-degrading panels
	CostPerWatt       int     // replacement cost per rated watt, KRW
}

// DetectorSettings contains settings for the segmentation model collaborator.
type DetectorSettings struct {
	Endpoint      string  // URL of the detection model service
	MinConfidence float64 // detections below this confidence are discarded
	Timeout       int     // request timeout in seconds
}

// PredictorSettings contains settings for the ensemble generation predictor.
type PredictorSettings struct {
	Endpoint string // URL of the prediction model service
	Timeout  int    // request timeout in seconds
}

// RendererSettings contains settings for the report renderer collaborator.
type RendererSettings struct {
	Enabled  bool   // true to enable PDF report rendering
	Endpoint string // URL of the renderer service
	Timeout  int    // request timeout in seconds
	Path     string // directory where rendered reports are stored
}

// ImageSourceSettings contains settings for panel image retrieval.
type ImageSourceSettings struct {
	Timeout  int   // download timeout in seconds
	MaxBytes int64 // maximum image size in bytes
}

// WebServerSettings contains settings for the API web server.
type WebServerSettings struct {
	Enabled bool   // true to enable web server
	Port    string // port for web server
	Log     LogConfig
}

// SQLiteSettings contains settings for the SQLite database
type SQLiteSettings struct {
	Enabled bool   // true to enable sqlite output
	Path    string // path to sqlite database
}

// MySQLSettings contains settings for the MySQL database
type MySQLSettings struct {
	Enabled  bool   // true to enable mysql output
	Username string // mysql username
	Password string // mysql password
	Database string // mysql database name
	Host     string // mysql host
	Port     string // mysql port
}

// OutputSettings contains settings for result storage
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// TelemetrySettings contains settings for the Prometheus telemetry endpoint.
type TelemetrySettings struct {
	Enabled bool   // true to enable Prometheus compatible telemetry endpoint
	Listen  string // IP address and port to listen on
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug mode

	Main        MainSettings
	Analysis    AnalysisSettings
	Performance PerformanceSettings
	Detector    DetectorSettings
	Predictor   PredictorSettings
	Renderer    RendererSettings
	ImageSource ImageSourceSettings
	WebServer   WebServerSettings
	Output      OutputSettings
	Telemetry   TelemetrySettings

	Version string `yaml:"-"` // runtime value, not saved
}

var (
	// settingsInstance is the current settings snapshot
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration into a new immutable snapshot, validates it and
// installs it as the current settings instance. Validation failures abort the
// load: business thresholds are never silently defaulted per-request.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	configFound, err := initViper()
	if err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal config into struct
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	// First run: materialize the defaults so the operator has a file to edit.
	if !configFound {
		if paths, err := GetDefaultConfigPaths(); err == nil && len(paths) > 0 {
			if configPath, err := createDefaultConfig(settings, paths[0]); err != nil {
				log.Printf("cannot write default config file: %v", err)
			} else {
				log.Printf("created default config file at %s", configPath)
			}
		}
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with defaults and reads the configuration file.
// A missing config file is not an error, defaults apply; found reports whether
// a file was read.
func initViper() (found bool, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return false, fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return false, fmt.Errorf("fatal error reading config file: %w", err)
		}
		log.Println("config file not found, using defaults")
		return false, nil
	}

	return true, nil
}

// GetDefaultConfigPaths returns the default configuration file search paths.
func GetDefaultConfigPaths() ([]string, error) {
	var paths []string

	configDir, err := os.UserConfigDir()
	if err == nil {
		paths = append(paths, filepath.Join(configDir, "solarscan-go"))
	}
	paths = append(paths, ".")

	return paths, nil
}

// Setting returns the current settings snapshot, loading the configuration on
// first use. The returned pointer must be treated as read-only; in-flight
// computations keep the snapshot they were handed even across a reload.
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			if _, err := Load(); err != nil {
				log.Fatalf("error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// GetSettings returns the current settings instance without triggering a load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// ReplaceSettings atomically swaps the whole settings snapshot. The new
// snapshot is validated first; a snapshot that fails validation is rejected
// and the previous one stays in effect. Thresholds visible to an in-flight
// computation are never partially mutated.
func ReplaceSettings(newSettings *Settings) error {
	if err := ValidateSettings(newSettings); err != nil {
		return fmt.Errorf("rejecting settings reload: %w", err)
	}

	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	settingsInstance = newSettings
	return nil
}
