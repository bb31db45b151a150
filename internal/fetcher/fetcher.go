package fetcher

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"eiareport/internal/config"
	apperrors "eiareport/internal/errors"
	"eiareport/pkg/contracts/domain"
)

// Client downloads yearly wholesale market CSV datasets from the EIA site.
// Any failure surfaces as a FetchError alongside an empty dataset, so callers
// can degrade to "no data for that year" without special-casing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	market     string
	skipRows   int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a fetch client for the configured market and base URL.
func NewClient(cfg config.FetchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		market:     cfg.Market,
		skipRows:   cfg.SkipRows,
		// Polite spacing between downloads from the public EIA endpoint.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:  logger,
	}
}

// DatasetURL returns the source location for a year's day-ahead hourly zone
// LMP file, e.g. .../csv/pjm_lmp_da_hr_zones_2024.csv.
func (c *Client) DatasetURL(year int) string {
	return fmt.Sprintf("%s/%s_lmp_da_hr_zones_%d.csv", c.baseURL, c.market, year)
}

// FetchYear downloads and parses one year's dataset. On any network, HTTP or
// parse failure it returns an empty dataset together with the error.
func (c *Client) FetchYear(ctx context.Context, year int) (domain.YearlyDataset, error) {
	empty := domain.YearlyDataset{Year: year}

	if err := c.limiter.Wait(ctx); err != nil {
		return empty, apperrors.NewFetchError(year, err)
	}

	url := c.DatasetURL(year)
	c.logger.InfoContext(ctx, "fetching year dataset",
		slog.Int("year", year),
		slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return empty, apperrors.NewFetchError(year, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, apperrors.NewFetchError(year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return empty, apperrors.NewFetchError(year, fmt.Errorf("bad status for %s: %s", url, resp.Status))
	}

	dataset, err := parseDataset(resp.Body, year, c.skipRows)
	if err != nil {
		return empty, apperrors.NewFetchError(year, err)
	}

	c.logger.InfoContext(ctx, "year dataset fetched",
		slog.Int("year", year),
		slog.Int("rows", len(dataset.Rows)),
		slog.Int("columns", len(dataset.Columns)))

	return dataset, nil
}

// parseDataset reads the EIA CSV payload: skipRows preamble lines, then a
// header row, then data rows. The preamble is skipped as raw lines because
// the banner text is not necessarily well-formed CSV.
func parseDataset(r io.Reader, year, skipRows int) (domain.YearlyDataset, error) {
	buffered := bufio.NewReader(r)
	for i := 0; i < skipRows; i++ {
		if _, err := buffered.ReadString('\n'); err != nil {
			return domain.YearlyDataset{Year: year}, fmt.Errorf("skip preamble line %d: %w", i+1, err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return domain.YearlyDataset{Year: year}, fmt.Errorf("read header: %w", err)
	}

	dataset := domain.YearlyDataset{Year: year, Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.YearlyDataset{Year: year}, fmt.Errorf("read record: %w", err)
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	return dataset, nil
}
