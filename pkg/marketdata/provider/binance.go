package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/rxtech-lab/argo-scorecard/pkg/marketdata/writer"
)

// binancePageSize is the default kline page size; a shorter page is the last one.
const binancePageSize = 500

// BinanceKlinesService is the part of the kline service the client uses.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the part of the Binance client the client uses.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceAPIAdapter struct {
	client *binance.Client
}

func (a *binanceAPIAdapter) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesAdapter{svc: a.client.NewKlinesService()}
}

type binanceKlinesAdapter struct {
	svc *binance.KlinesService
}

func (k *binanceKlinesAdapter) Symbol(symbol string) BinanceKlinesService {
	k.svc.Symbol(symbol)

	return k
}

func (k *binanceKlinesAdapter) Interval(interval string) BinanceKlinesService {
	k.svc.Interval(interval)

	return k
}

func (k *binanceKlinesAdapter) StartTime(startTime int64) BinanceKlinesService {
	k.svc.StartTime(startTime)

	return k
}

func (k *binanceKlinesAdapter) EndTime(endTime int64) BinanceKlinesService {
	k.svc.EndTime(endTime)

	return k
}

func (k *binanceKlinesAdapter) Do(ctx context.Context) ([]*binance.Kline, error) {
	return k.svc.Do(ctx)
}

type BinanceClient struct {
	api    BinanceAPIClient
	writer writer.BarWriter
}

// NewBinanceClient creates a client for the public kline API; no key is needed.
func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceAPIAdapter{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a client over an existing API implementation.
func NewBinanceClientWithAPI(api BinanceAPIClient) Provider {
	return &BinanceClient{api: api}
}

func (c *BinanceClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// Download implements Provider. Klines are paged by start time.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()
	current := startMillis

	for current <= endMillis {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrap(errors.ErrCodeCanceled, "download canceled", err)
		}

		klines, err := c.api.NewKlinesService().
			Symbol(ticker).
			Interval("1d").
			StartTime(current).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", ticker)
		}

		if err := writeKlines(c.writer, ticker, klines); err != nil {
			return "", err
		}

		progress(onProgress, float64(current-startMillis), float64(endMillis-startMillis), fmt.Sprintf("Downloading %s", ticker))

		if len(klines) < binancePageSize {
			break
		}

		current = klines[len(klines)-1].CloseTime + 1
	}

	return c.writer.Finalize()
}

// writeKlines converts klines to daily bars.
func writeKlines(w writer.BarWriter, ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		bar, err := klineBar(k)
		if err != nil {
			return err
		}

		if err := w.Write(ticker, bar); err != nil {
			return err
		}
	}

	return nil
}

func klineBar(k *binance.Kline) (types.Bar, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	values := make([]float64, len(fields))

	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q", f)
		}

		values[i] = v
	}

	return types.Bar{
		Date:   sessionDate(time.UnixMilli(k.OpenTime), time.UTC),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
