package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
	"github.com/krishi-shayak/mandi-prices/internal/metrics"
)

// Config carries the process-wide fetch options, read once at startup.
type Config struct {
	// DevMode skips real providers entirely and serves synthetic data.
	DevMode bool
	// MockFallback enables the synthetic provider when every real
	// provider exhausts its retries.
	MockFallback bool
	// Timeout bounds each individual provider attempt.
	Timeout time.Duration
	// MaxRetries is the attempt count per real provider.
	MaxRetries int
	// RetryDelay is the wait between attempts.
	RetryDelay time.Duration
	// DefaultSource names the real provider tried first.
	DefaultSource string
}

type sourceKind int

const (
	sourceLive sourceKind = iota
	sourceDev
	sourceFallback
)

// Fetcher runs the fetch orchestration. Each call owns its own retry state,
// so a single Fetcher is safe for concurrent use.
type Fetcher struct {
	real      []mandi.Provider
	synthetic mandi.Provider
	clock     mandi.Clock
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Fetcher. real providers are tried in slice order, except
// that cfg.DefaultSource is promoted to the front.
func New(real []mandi.Provider, synthetic mandi.Provider, clock mandi.Clock, cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		real:      real,
		synthetic: synthetic,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// GetCropPrices fetches current prices for a state with optional district and
// crop filters. mockOnly overrides the process-wide dev-mode toggle for this
// call; nil means "use the configured default". It never returns an error:
// every failure is expressed in the envelope.
func (f *Fetcher) GetCropPrices(ctx context.Context, state, district, cropName string, mockOnly *bool) mandi.PriceResponse {
	return f.Fetch(ctx, mandi.PriceQuery{State: state, District: district, CropName: cropName}, mockOnly)
}

// GetCropPricesSync is the blocking bridge over GetCropPrices for callers
// without a context of their own. It runs under an overall deadline of
// attempts x (timeout + delay) per provider. Callers that already hold a
// request context should use GetCropPrices instead.
func (f *Fetcher) GetCropPricesSync(state, district, cropName string, mockOnly *bool) mandi.PriceResponse {
	ctx, cancel := context.WithTimeout(context.Background(), f.syncBudget())
	defer cancel()
	return f.GetCropPrices(ctx, state, district, cropName, mockOnly)
}

// Fetch runs the full orchestration for one query.
func (f *Fetcher) Fetch(ctx context.Context, query mandi.PriceQuery, mockOnly *bool) mandi.PriceResponse {
	query = query.Normalized()
	if err := query.Validate(); err != nil {
		return f.assemble(false, nil, query, err.Error())
	}

	useMock := f.cfg.DevMode
	if mockOnly != nil {
		useMock = *mockOnly
	}
	if useMock {
		f.logger.Info("dev mode: serving synthetic data", zap.String("state", query.State))
		return f.fromSynthetic(ctx, query, sourceDev)
	}

	policy := RetryPolicy{
		MaxAttempts: f.cfg.MaxRetries,
		Timeout:     f.cfg.Timeout,
		Delay:       f.cfg.RetryDelay,
		Clock:       f.clock,
		Logger:      f.logger,
	}

	var lastErr error
	for _, provider := range f.ordered() {
		records, err := policy.Run(ctx, provider, query)
		if err == nil {
			// Zero matching records from a live source is not an error.
			return f.finish(query, records, provider.Name(), sourceLive)
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return f.assemble(false, nil, query, fmt.Sprintf("fetch canceled: %v", err))
		}
		f.logger.Warn("provider exhausted",
			zap.String("source", provider.Name()),
			zap.Error(err),
		)
	}

	if f.cfg.MockFallback {
		f.logger.Warn("all live sources failed, using synthetic fallback", zap.Error(lastErr))
		metrics.ObserveFallback()
		return f.fromSynthetic(ctx, query, sourceFallback)
	}

	msg := fmt.Sprintf("all data sources failed for %s", describeQuery(query))
	if lastErr != nil {
		msg += fmt.Sprintf(": %v", lastErr)
	}
	return f.assemble(false, nil, query, msg)
}

func (f *Fetcher) fromSynthetic(ctx context.Context, query mandi.PriceQuery, kind sourceKind) mandi.PriceResponse {
	records, err := f.synthetic.Fetch(ctx, query)
	if err != nil {
		// The synthetic provider is contractually infallible; guard anyway.
		return f.assemble(false, nil, query, fmt.Sprintf("synthetic provider failed: %v", err))
	}
	return f.finish(query, records, f.synthetic.Name(), kind)
}

// finish validates and normalizes raw records, then assembles the envelope.
func (f *Fetcher) finish(query mandi.PriceQuery, raw []mandi.PriceRecord, origin string, kind sourceKind) mandi.PriceResponse {
	records := make([]mandi.PriceRecord, 0, len(raw))
	dropped := 0
	for _, rec := range raw {
		if !query.Matches(rec) {
			continue
		}
		rec = mandi.NormalizeRecord(rec)
		if err := mandi.ValidateRecord(rec); err != nil {
			dropped++
			f.logger.Warn("dropping invalid record",
				zap.String("source", origin),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	metrics.ObserveDroppedRecords(dropped)

	return f.assemble(true, records, query, f.message(query, len(records), dropped, origin, kind))
}

// assemble builds the immutable response envelope. Count always equals
// len(Data); Data is never nil so it serializes as an empty array.
func (f *Fetcher) assemble(success bool, records []mandi.PriceRecord, query mandi.PriceQuery, msg string) mandi.PriceResponse {
	if records == nil {
		records = []mandi.PriceRecord{}
	}
	return mandi.PriceResponse{
		Success:   success,
		Data:      records,
		Count:     len(records),
		State:     query.State,
		District:  query.District,
		CropName:  query.CropName,
		FetchedAt: f.now(),
		Message:   msg,
	}
}

func (f *Fetcher) message(query mandi.PriceQuery, count, dropped int, origin string, kind sourceKind) string {
	var b strings.Builder
	switch {
	case count == 0:
		b.WriteString("no price data found for ")
		b.WriteString(describeQuery(query))
		switch kind {
		case sourceDev:
			b.WriteString(" (synthetic, dev mode)")
		case sourceFallback:
			b.WriteString(" (synthetic fallback)")
		default:
			fmt.Fprintf(&b, " (live source %s)", origin)
		}
	case kind == sourceDev:
		fmt.Fprintf(&b, "fetched %d synthetic price entries (dev mode)", count)
	case kind == sourceFallback:
		fmt.Fprintf(&b, "live sources unavailable, returning %d synthetic fallback entries", count)
	default:
		fmt.Fprintf(&b, "fetched %d price entries from live source %s", count, origin)
	}
	if dropped > 0 {
		fmt.Fprintf(&b, "; dropped %d invalid records", dropped)
	}
	return b.String()
}

// ordered returns the real providers with the configured default source first.
func (f *Fetcher) ordered() []mandi.Provider {
	if f.cfg.DefaultSource == "" || len(f.real) < 2 {
		return f.real
	}
	out := make([]mandi.Provider, 0, len(f.real))
	for _, p := range f.real {
		if strings.EqualFold(p.Name(), f.cfg.DefaultSource) {
			out = append(out, p)
		}
	}
	for _, p := range f.real {
		if !strings.EqualFold(p.Name(), f.cfg.DefaultSource) {
			out = append(out, p)
		}
	}
	return out
}

func (f *Fetcher) syncBudget() time.Duration {
	attempts := f.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	providers := len(f.real)
	if providers == 0 {
		providers = 1
	}
	perProvider := time.Duration(attempts) * (f.cfg.Timeout + f.cfg.RetryDelay)
	return time.Duration(providers)*perProvider + time.Second
}

func (f *Fetcher) now() time.Time {
	if f.clock != nil {
		return f.clock.Now()
	}
	return time.Now().UTC()
}

func describeQuery(q mandi.PriceQuery) string {
	s := "state=" + q.State
	if q.District != "" {
		s += ", district=" + q.District
	}
	if q.CropName != "" {
		s += ", crop=" + q.CropName
	}
	return s
}
