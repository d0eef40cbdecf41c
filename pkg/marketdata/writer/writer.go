package writer

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// BarWriter persists downloaded daily bars.
type BarWriter interface {
	// Initialize sets up the writer, creating tables or files.
	Initialize() error
	// Write persists one bar of symbol.
	Write(symbol string, bar types.Bar) error
	// Finalize completes the write (commits, exports files) and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
