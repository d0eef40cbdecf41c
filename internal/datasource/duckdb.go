package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens a DuckDB database at path (empty for in-memory). Bars are attached later
// with Initialize.
func NewDataSource(path string, log *logger.Logger) (DataSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	// CREATE VIEW takes no bind parameters.
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM read_parquet('%s');
	`, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read parquet %s", path)
	}

	return nil
}

// GetAllSymbols implements DataSource.
func (d *DuckDBDataSource) GetAllSymbols() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT symbol FROM market_data ORDER BY symbol")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	builder := d.sq.Select("COUNT(*)").From("market_data")
	if where := timeRange(start, end); len(where) > 0 {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// LoadUniverse implements DataSource. Symbols with fewer than MinBars bars or with
// non-increasing dates are dropped with a log line.
func (d *DuckDBDataSource) LoadUniverse(ctx context.Context, filter Filter) (*types.Universe, error) {
	query, args, err := d.buildLoadQuery(filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build load query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var (
		series  []types.Series
		current string
		bars    []types.Bar
		dropped int
	)

	flush := func() {
		if current == "" {
			return
		}

		if len(bars) < filter.MinBars {
			d.logger.Debug("symbol dropped: too few bars",
				zap.String("symbol", current),
				zap.Int("bars", len(bars)),
				zap.Int("min_bars", filter.MinBars))

			dropped++

			return
		}

		s, err := types.NewSeries(current, bars)
		if err != nil {
			d.logger.Warn("symbol dropped: invalid series", zap.String("symbol", current), zap.Error(err))

			dropped++

			return
		}

		series = append(series, s)
	}

	for rows.Next() {
		var (
			timestamp                      time.Time
			symbol                         string
			open, high, low, close, volume float64
		)

		if err := rows.Scan(&timestamp, &symbol, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		if filter.Excluded(symbol) {
			continue
		}

		if symbol != current {
			flush()

			current = symbol
			bars = nil
		}

		bars = append(bars, types.Bar{Date: timestamp, Open: open, High: high, Low: low, Close: close, Volume: volume})
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	flush()

	if len(series) == 0 {
		return nil, errors.New(errors.ErrCodeNoDataFound, "no symbol passed the data filter")
	}

	d.logger.Info("Universe loaded", zap.Int("symbols", len(series)), zap.Int("dropped", dropped))

	return types.NewUniverse(series...)
}

func (d *DuckDBDataSource) buildLoadQuery(filter Filter) (string, []interface{}, error) {
	where := timeRange(filter.Start, filter.End)

	for _, prefix := range filter.ExcludePrefixes {
		if prefix != "" {
			// prefixes match literally, including _ and %
			where = append(where, squirrel.Expr("NOT starts_with(symbol, ?)", prefix))
		}
	}

	if len(filter.Symbols) > 0 {
		where = append(where, squirrel.Eq{"symbol": filter.Symbols})
	}

	builder := d.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From("market_data")

	if len(where) > 0 {
		builder = builder.Where(where)
	}

	return builder.OrderBy("symbol ASC", "time ASC").ToSql()
}

func timeRange(start, end optional.Option[time.Time]) squirrel.And {
	var where squirrel.And

	if start.IsSome() {
		where = append(where, squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		where = append(where, squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return where
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db == nil {
		return nil
	}

	return d.db.Close()
}
