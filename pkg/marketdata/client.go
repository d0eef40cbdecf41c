package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/rxtech-lab/argo-scorecard/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-scorecard/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon binance"`
	DataPath      string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
}

// DownloadParams describes one download request. Each ticker is written to its own file.
type DownloadParams struct {
	Tickers   []string  `validate:"required,min=1,dive,required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client downloads daily bars from a provider into parquet files the datasource can read.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
	newWriter  func(outputPath string, log *logger.Logger) writer.BarWriter
}

// NewClient creates a market data client for the configured provider.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, config.PolygonApiKey)
	if err != nil {
		return nil, err
	}

	return newClient(config, marketProvider, onProgress, log, validate), nil
}

// NewClientWithProvider creates a client around an existing provider.
func NewClientWithProvider(config ClientConfig, p provider.Provider, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	return newClient(config, p, onProgress, log, validate), nil
}

func newClient(config ClientConfig, p provider.Provider, onProgress provider.OnDownloadProgress, log *logger.Logger, validate *validator.Validate) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider:   p,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
		log:        log,
		newWriter:  writer.NewDuckDBWriter,
	}
}

// Download fetches every ticker in order and returns the written file paths.
// It stops at the first failure; files already written are kept.
func (c *Client) Download(ctx context.Context, params DownloadParams) ([]string, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if err := os.MkdirAll(c.config.DataPath, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create data directory %s", c.config.DataPath)
	}

	paths := make([]string, 0, len(params.Tickers))

	for _, ticker := range params.Tickers {
		if err := ctx.Err(); err != nil {
			return paths, errors.Wrap(errors.ErrCodeCanceled, "download canceled", err)
		}

		outputPath := filepath.Join(c.config.DataPath, OutputFileName(ticker, params.StartDate, params.EndDate))
		c.provider.ConfigWriter(c.newWriter(outputPath, c.log))

		c.log.Info("Downloading market data",
			zap.String("ticker", ticker),
			zap.String("provider", string(c.config.ProviderType)),
			zap.String("output", outputPath))

		path, err := c.provider.Download(ctx, ticker, params.StartDate, params.EndDate, c.onProgress)
		if err != nil {
			return paths, errors.Wrapf(errors.GetCode(err), err, "download %s failed", ticker)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// OutputFileName names a downloaded file: TICKER_START_END_1d.parquet.
func OutputFileName(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s_1d.parquet", ticker, start.Format(time.DateOnly), end.Format(time.DateOnly))
}
