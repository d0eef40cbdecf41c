package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	scerrors "github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockBinanceAPIClient serves one page per call.
type mockBinanceAPIClient struct {
	pages     [][]*binance.Kline
	errs      []error
	callCount int
	starts    []int64
	interval  string
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &mockBinanceKlinesService{client: m}
}

type mockBinanceKlinesService struct {
	client *mockBinanceAPIClient
}

func (m *mockBinanceKlinesService) Symbol(string) BinanceKlinesService { return m }

func (m *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	m.client.interval = interval

	return m
}

func (m *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	m.client.starts = append(m.client.starts, startTime)

	return m
}

func (m *mockBinanceKlinesService) EndTime(int64) BinanceKlinesService { return m }

func (m *mockBinanceKlinesService) Do(context.Context) ([]*binance.Kline, error) {
	idx := m.client.callCount
	m.client.callCount++

	var err error
	if idx < len(m.client.errs) {
		err = m.client.errs[idx]
	}

	if idx < len(m.client.pages) {
		return m.client.pages[idx], err
	}

	return nil, err
}

func kline(day int) *binance.Kline {
	open := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)

	return &binance.Kline{
		OpenTime:  open.UnixMilli(),
		CloseTime: open.Add(24*time.Hour).UnixMilli() - 1,
		Open:      "100.5",
		High:      "110",
		Low:       "95.25",
		Close:     "105",
		Volume:    "12.5",
	}
}

type BinanceClientTestSuite struct {
	suite.Suite
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) TestDownloadPaginates() {
	full := make([]*binance.Kline, binancePageSize)
	for i := range full {
		full[i] = kline(i)
	}

	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{full, {kline(binancePageSize)}}}
	w := &mockWriter{outputPath: "BTCUSDT.parquet"}

	client := NewBinanceClientWithAPI(api)
	client.ConfigWriter(w)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	path, err := client.Download(context.Background(), "BTCUSDT", from, from.AddDate(3, 0, 0), nil)
	suite.Require().NoError(err)
	suite.Equal("BTCUSDT.parquet", path)

	suite.Equal(2, api.callCount)
	suite.Equal("1d", api.interval)
	suite.Equal(full[len(full)-1].CloseTime+1, api.starts[1])
	suite.Len(w.bars, binancePageSize+1)

	first := w.bars[0].bar
	suite.Equal(from, first.Date)
	suite.Equal(100.5, first.Open)
	suite.Equal(95.25, first.Low)
	suite.Equal(12.5, first.Volume)
}

func (suite *BinanceClientTestSuite) TestDownloadErrors() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewBinanceClientWithAPI(&mockBinanceAPIClient{}).Download(context.Background(), "BTCUSDT", from, from.AddDate(0, 1, 0), nil)
	suite.True(scerrors.HasCode(err, scerrors.ErrCodeMarketDataWriteFailed))

	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{errs: []error{errors.New("418 banned")}})
	client.ConfigWriter(&mockWriter{})
	_, err = client.Download(context.Background(), "BTCUSDT", from, from.AddDate(0, 1, 0), nil)
	suite.True(scerrors.HasCode(err, scerrors.ErrCodeMarketDataFetchFailed))

	bad := kline(0)
	bad.Close = "n/a"
	client = NewBinanceClientWithAPI(&mockBinanceAPIClient{pages: [][]*binance.Kline{{bad}}})
	client.ConfigWriter(&mockWriter{})
	_, err = client.Download(context.Background(), "BTCUSDT", from, from.AddDate(0, 1, 0), nil)
	suite.True(scerrors.HasCode(err, scerrors.ErrCodeMarketDataParseFailed))
}

func (suite *BinanceClientTestSuite) TestNewMarketDataProvider() {
	p, err := NewMarketDataProvider(ProviderBinance, "")
	suite.NoError(err)
	suite.IsType(&BinanceClient{}, p)

	p, err = NewMarketDataProvider(ProviderPolygon, "key")
	suite.NoError(err)
	suite.IsType(&PolygonClient{}, p)

	_, err = NewMarketDataProvider("yahoo", "")
	suite.True(scerrors.HasCode(err, scerrors.ErrCodeInvalidProvider))
}
