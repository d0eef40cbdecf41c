package provider

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

type written struct {
	symbol string
	bar    types.Bar
}

// mockWriter records bars in memory.
type mockWriter struct {
	initializeErr     error
	writeErr          error
	finalizeErr       error
	closeErr          error
	outputPath        string
	initialized       bool
	bars              []written
	finalizeCallCount int
	closeCallCount    int
}

func (m *mockWriter) Initialize() error {
	if m.initializeErr != nil {
		return m.initializeErr
	}

	m.initialized = true

	return nil
}

func (m *mockWriter) Write(symbol string, bar types.Bar) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.bars = append(m.bars, written{symbol: symbol, bar: bar})

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	m.finalizeCallCount++
	if m.finalizeErr != nil {
		return "", m.finalizeErr
	}

	return m.outputPath, nil
}

func (m *mockWriter) Close() error {
	m.closeCallCount++

	return m.closeErr
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}
