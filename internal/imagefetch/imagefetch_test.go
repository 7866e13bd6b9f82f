package imagefetch

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/httpclient"
)

func newTestFetcher(maxBytes int64) (*HTTPFetcher, *httpmock.MockTransport) {
	mt := httpmock.NewMockTransport()
	hc := httpclient.New(&httpclient.Config{Transport: mt})
	settings := &conf.ImageSourceSettings{Timeout: 5, MaxBytes: maxBytes}
	return NewHTTPFetcher(settings, hc), mt
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	fetcher, mt := newTestFetcher(1 << 20)
	payload := strings.Repeat("x", 2048)
	mt.RegisterResponder(http.MethodGet, "http://storage.local/panel.jpg",
		httpmock.NewStringResponder(http.StatusOK, payload))

	data, err := fetcher.Fetch(context.Background(), "http://storage.local/panel.jpg")
	require.NoError(t, err)
	assert.Len(t, data, 2048)
}

func TestFetchRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	fetcher, _ := newTestFetcher(1 << 20)
	_, err := fetcher.Fetch(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestFetchNotFound(t *testing.T) {
	t.Parallel()

	fetcher, mt := newTestFetcher(1 << 20)
	mt.RegisterResponder(http.MethodGet, "http://storage.local/missing.jpg",
		httpmock.NewStringResponder(http.StatusNotFound, "no such object"))

	_, err := fetcher.Fetch(context.Background(), "http://storage.local/missing.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestFetchUpstreamError(t *testing.T) {
	t.Parallel()

	fetcher, mt := newTestFetcher(1 << 20)
	mt.RegisterResponder(http.MethodGet, "http://storage.local/panel.jpg",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	_, err := fetcher.Fetch(context.Background(), "http://storage.local/panel.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryHTTP))
}

func TestFetchOversizedImage(t *testing.T) {
	t.Parallel()

	fetcher, mt := newTestFetcher(1024)
	mt.RegisterResponder(http.MethodGet, "http://storage.local/huge.jpg",
		httpmock.NewStringResponder(http.StatusOK, strings.Repeat("x", 4096)))

	_, err := fetcher.Fetch(context.Background(), "http://storage.local/huge.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Contains(t, err.Error(), "size limit")
}

func TestFetchExactlyAtLimit(t *testing.T) {
	t.Parallel()

	fetcher, mt := newTestFetcher(1024)
	mt.RegisterResponder(http.MethodGet, "http://storage.local/fits.jpg",
		httpmock.NewStringResponder(http.StatusOK, strings.Repeat("x", 1024)))

	data, err := fetcher.Fetch(context.Background(), "http://storage.local/fits.jpg")
	require.NoError(t, err)
	assert.Len(t, data, 1024)
}

func TestFetchEmptyBody(t *testing.T) {
	t.Parallel()

	fetcher, mt := newTestFetcher(1024)
	mt.RegisterResponder(http.MethodGet, "http://storage.local/empty.jpg",
		httpmock.NewStringResponder(http.StatusOK, ""))

	_, err := fetcher.Fetch(context.Background(), "http://storage.local/empty.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryImageFetch))
}
