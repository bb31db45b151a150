package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eiareport/internal/config"
	apperrors "eiareport/internal/errors"
)

const samplePayload = `Day-Ahead Hourly LMPs (ZONES)
Source: PJM Interconnection
Published: 2025-01-02
Local Timestamp Eastern Time (Interval Beginning),PJM Western Hub LMP,PJM Eastern Hub LMP
2024-01-01 00:00:00,25.31,27.02
2024-01-01 01:00:00,24.10,26.55
`

func testConfig(baseURL string) config.FetchConfig {
	return config.FetchConfig{
		BaseURL:  baseURL,
		Market:   "pjm",
		Years:    []int{2024, 2025},
		Timeout:  5 * time.Second,
		SkipRows: 3,
	}
}

func TestDatasetURL(t *testing.T) {
	client := NewClient(testConfig("https://www.eia.gov/electricity/wholesalemarkets/csv/"), nil)
	assert.Equal(t,
		"https://www.eia.gov/electricity/wholesalemarkets/csv/pjm_lmp_da_hr_zones_2024.csv",
		client.DatasetURL(2024))
}

func TestFetchYearParsesDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pjm_lmp_da_hr_zones_2024.csv", r.URL.Path)
		fmt.Fprint(w, samplePayload)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	dataset, err := client.FetchYear(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, 2024, dataset.Year)
	assert.Equal(t, []string{
		"Local Timestamp Eastern Time (Interval Beginning)",
		"PJM Western Hub LMP",
		"PJM Eastern Hub LMP",
	}, dataset.Columns)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, []string{"2024-01-01 00:00:00", "25.31", "27.02"}, dataset.Rows[0])
}

func TestFetchYearHTTPErrorDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	dataset, err := client.FetchYear(context.Background(), 2025)

	require.Error(t, err)
	var fetchErr *apperrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 2025, fetchErr.Year)
	assert.True(t, dataset.IsEmpty())
}

func TestFetchYearNetworkErrorDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(testConfig(server.URL), nil)
	dataset, err := client.FetchYear(context.Background(), 2024)

	require.Error(t, err)
	assert.True(t, dataset.IsEmpty())
}

func TestFetchYearTruncatedPreamble(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "only one line")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	dataset, err := client.FetchYear(context.Background(), 2024)

	require.Error(t, err)
	assert.True(t, dataset.IsEmpty())
}

func TestFetchYearHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig("http://127.0.0.1:0"), nil)
	dataset, err := client.FetchYear(ctx, 2024)

	require.Error(t, err)
	assert.True(t, dataset.IsEmpty())
}

func TestFetchYearHeaderOnlyDatasetIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "a\nb\nc\nDate,Price\n")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	dataset, err := client.FetchYear(context.Background(), 2024)

	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Price"}, dataset.Columns)
	assert.True(t, dataset.IsEmpty())
}
