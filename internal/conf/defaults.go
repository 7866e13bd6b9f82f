// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SolarScan-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "solarscan.log")

	// Business rule thresholds, percentages. These mirror the maintenance
	// contract agreed with operations; changing them changes what gets
	// replaced vs repaired vs cleaned.
	viper.SetDefault("analysis.thresholds.critical", 10.0)
	viper.SetDefault("analysis.thresholds.urgent", 30.0)
	viper.SetDefault("analysis.thresholds.contamination", 10.0)

	// Cost table, KRW
	viper.SetDefault("analysis.costs.repairperpoint", 1000)
	viper.SetDefault("analysis.costs.replacement", 350000)
	viper.SetDefault("analysis.maxloss", 95.0)

	viper.SetDefault("performance.normalratio", 0.9)
	viper.SetDefault("performance.fairratio", 0.7)
	viper.SetDefault("performance.endoflifefraction", 0.8)
	viper.SetDefault("performance.ceilingmonths", 300.0)
	viper.SetDefault("performance.costperwatt", 2000)

	viper.SetDefault("detector.endpoint", "http://localhost:8501/detect")
	viper.SetDefault("detector.minconfidence", 0.25)
	viper.SetDefault("detector.timeout", 30)

	viper.SetDefault("predictor.endpoint", "http://localhost:8502/predict")
	viper.SetDefault("predictor.timeout", 30)

	viper.SetDefault("renderer.enabled", true)
	viper.SetDefault("renderer.endpoint", "http://localhost:8503/render")
	viper.SetDefault("renderer.timeout", 60)
	viper.SetDefault("renderer.path", "reports/")

	viper.SetDefault("imagesource.timeout", 30)
	viper.SetDefault("imagesource.maxbytes", 10*1024*1024)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.log.enabled", false)
	viper.SetDefault("webserver.log.path", "webapi.log")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "solarscan.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "solarscan")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "solarscan")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")
}
