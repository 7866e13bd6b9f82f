// Package file implements the one-shot analysis command for a detections
// JSON file, useful for offline evaluation without the model services.
package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solarscan/solarscan-go/internal/assessment"
	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/damage"
	"github.com/solarscan/solarscan-go/internal/detection"
)

// input mirrors the detection service response so saved responses can be
// replayed directly.
type input struct {
	Detections  []detection.Detection `json:"detections"`
	ImageWidth  int                   `json:"image_width"`
	ImageHeight int                   `json:"image_height"`
}

// output is the printed result of a one-shot analysis.
type output struct {
	DamageAnalysis     damage.Metrics        `json:"damage_analysis"`
	BusinessAssessment assessment.Assessment `json:"business_assessment"`
}

// Command creates the file command for analyzing a saved detections file.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "file [detections.json]",
		Short: "Analyze a saved detections file",
		Long:  "Run the damage metric and business rule pipeline over a detections JSON file and print the assessment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(settings, args[0])
		},
	}
}

func runFile(settings *conf.Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading detections file: %w", err)
	}

	var in input
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing detections file: %w", err)
	}

	totalArea := 0
	if in.ImageWidth > 0 && in.ImageHeight > 0 {
		totalArea = in.ImageWidth * in.ImageHeight
	}

	agg, err := detection.Normalize(in.Detections, totalArea)
	if err != nil {
		return err
	}
	m := damage.Calculate(agg)
	a := assessment.Evaluate(&m, &settings.Analysis)

	encoded, err := json.MarshalIndent(output{DamageAnalysis: m, BusinessAssessment: a}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
