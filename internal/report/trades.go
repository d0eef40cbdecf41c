package report

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"go.uber.org/zap"
)

// insertBatch bounds the rows per INSERT statement.
const insertBatch = 500

var tradeColumns = []string{
	"selector", "signal", "target", "symbol", "evaluation_index",
	"entry_date", "entry_price", "exit_date", "exit_price",
	"outcome", "holding_days", "return", "success",
}

// TradesWriter exports every trade of a scorecard to a Parquet file through an in-memory DuckDB.
type TradesWriter struct {
	outputPath string
	log        *logger.Logger
}

// NewTradesWriter creates a writer for outputPath. A nil logger discards output.
func NewTradesWriter(outputPath string, log *logger.Logger) *TradesWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &TradesWriter{outputPath: outputPath, log: log}
}

// Write exports the trades of every entry, in entry order, and returns the file path.
func (w *TradesWriter) Write(card types.Scorecard) (string, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE trades (
			selector TEXT,
			signal TEXT,
			target TEXT,
			symbol TEXT,
			evaluation_index INTEGER,
			entry_date TIMESTAMP,
			entry_price DOUBLE,
			exit_date TIMESTAMP,
			exit_price DOUBLE,
			outcome TEXT,
			holding_days INTEGER,
			"return" DOUBLE,
			success BOOLEAN
		)
	`)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create trades table", err)
	}

	rows := 0

	for _, e := range card.Entries {
		res := e.Result

		for start := 0; start < len(res.Trades); start += insertBatch {
			end := min(start+insertBatch, len(res.Trades))

			insert := squirrel.Insert("trades").Columns(quoted(tradeColumns)...)
			for _, t := range res.Trades[start:end] {
				insert = insert.Values(res.SelectorID, res.SignalID, res.TargetID, t.Symbol, int(t.EvaluationIndex),
					t.EntryDate, t.EntryPrice, t.ExitDate, t.ExitPrice,
					string(t.Outcome), t.HoldingDays, t.Return, t.Success)
			}

			query, args, err := insert.ToSql()
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to build trade insert", err)
			}

			if _, err := db.Exec(query, args...); err != nil {
				return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to insert trades", err)
			}

			rows += end - start
		}
	}

	query := fmt.Sprintf(`COPY trades TO '%s' (FORMAT PARQUET)`, strings.ReplaceAll(w.outputPath, "'", "''"))
	if _, err := db.Exec(query); err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to export trades to Parquet", err)
	}

	w.log.Info("Exported trades", zap.String("path", w.outputPath), zap.Int("rows", rows))

	return w.outputPath, nil
}

// quoted protects column names that are SQL keywords.
func quoted(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = `"` + c + `"`
	}

	return out
}
