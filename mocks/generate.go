package mocks

//go:generate mockgen -destination=./mock_selector.go -package=mocks github.com/rxtech-lab/argo-scorecard/internal/selector Selector
//go:generate mockgen -destination=./mock_generator.go -package=mocks github.com/rxtech-lab/argo-scorecard/internal/signal Generator
//go:generate mockgen -destination=./mock_target.go -package=mocks github.com/rxtech-lab/argo-scorecard/internal/target Target
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-scorecard/internal/indicator Indicator
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-scorecard/pkg/marketdata/provider Provider
