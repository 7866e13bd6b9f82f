package detector

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/detection"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/httpclient"
)

const testEndpoint = "http://localhost:8501/detect"

func newTestClient(minConfidence float64) (*Client, *httpmock.MockTransport) {
	mt := httpmock.NewMockTransport()
	hc := httpclient.New(&httpclient.Config{Transport: mt})
	settings := &conf.DetectorSettings{
		Endpoint:      testEndpoint,
		MinConfidence: minConfidence,
		Timeout:       5,
	}
	return NewClient(settings, hc), mt
}

func TestDetectSuccess(t *testing.T) {
	t.Parallel()

	client, mt := newTestClient(0.25)
	mt.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Output{
			Detections: []detection.Detection{
				{ClassName: "Dusty", Confidence: 0.88, AreaPixels: 45000},
			},
			ImageWidth:   1920,
			ImageHeight:  1080,
			ModelVersion: "seg-v3",
		}))

	out, err := client.Detect(context.Background(), []byte{0xFF, 0xD8})
	require.NoError(t, err)

	require.Len(t, out.Detections, 1)
	assert.Equal(t, "Dusty", out.Detections[0].ClassName)
	assert.Equal(t, 2073600, out.TotalImageArea())
	assert.Equal(t, "seg-v3", out.ModelVersion)
}

func TestDetectFiltersLowConfidence(t *testing.T) {
	t.Parallel()

	client, mt := newTestClient(0.5)
	mt.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Output{
			Detections: []detection.Detection{
				{ClassName: "Defective", Confidence: 0.95, AreaPixels: 1000},
				{ClassName: "Dusty", Confidence: 0.30, AreaPixels: 500},
				{ClassName: "Snow", Confidence: 0.50, AreaPixels: 200},
			},
		}))

	out, err := client.Detect(context.Background(), []byte{0x01})
	require.NoError(t, err)

	// The 0.30 detection falls below the floor; 0.50 sits exactly on it.
	require.Len(t, out.Detections, 2)
	assert.Equal(t, "Defective", out.Detections[0].ClassName)
	assert.Equal(t, "Snow", out.Detections[1].ClassName)
}

func TestDetectRejectsEmptyImage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(0.25)
	_, err := client.Detect(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestDetectModelUnavailable(t *testing.T) {
	t.Parallel()

	client, mt := newTestClient(0.25)
	mt.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "model not loaded"))

	_, err := client.Detect(context.Background(), []byte{0x01})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryModelLoad))
}

func TestDetectInferenceFailure(t *testing.T) {
	t.Parallel()

	client, mt := newTestClient(0.25)
	mt.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusInternalServerError, "inference blew up"))

	_, err := client.Detect(context.Background(), []byte{0x01})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryInference))
}

func TestOutputTotalImageArea(t *testing.T) {
	t.Parallel()

	withDims := Output{ImageWidth: 100, ImageHeight: 50}
	assert.Equal(t, 5000, withDims.TotalImageArea())

	noDims := Output{}
	assert.Zero(t, noDims.TotalImageArea())
}
