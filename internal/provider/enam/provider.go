// Package enam accesses the e-NAM (National Agriculture Market) trading
// portal, the pan-India electronic market connecting APMC mandis.
package enam

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

const (
	defaultBaseURL = "https://enam.gov.in"
	livePricePath  = "/web/dashboard/live_price"
	defaultTimeout = 15 * time.Second
)

// Config controls portal access.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Provider implements mandi.Provider against e-NAM. The live-price API
// needs session authentication that is not implemented yet, so Fetch probes
// the dashboard and reports SourceUnavailable.
type Provider struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: cfg, logger: logger}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return mandi.SourceEnam
}

// Fetch probes the live-price dashboard and currently always fails with
// SourceUnavailable.
func (p *Provider) Fetch(ctx context.Context, query mandi.PriceQuery) ([]mandi.PriceRecord, error) {
	opts := []colly.CollectorOption{colly.StdlibContext(ctx)}
	if p.cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(p.cfg.UserAgent))
	}
	collector := colly.NewCollector(opts...)
	collector.SetRequestTimeout(p.cfg.Timeout)

	var status int
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})

	p.logger.Debug("probing e-nam",
		zap.String("state", query.State),
		zap.String("crop", query.CropName),
	)

	if err := collector.Visit(p.cfg.BaseURL + livePricePath); err != nil {
		return nil, &mandi.SourceError{
			Source: p.Name(),
			Err:    fmt.Errorf("%w: %v", mandi.ErrSourceUnavailable, err),
		}
	}
	if status != http.StatusOK {
		return nil, &mandi.SourceError{
			Source: p.Name(),
			Err:    fmt.Errorf("%w: HTTP %d", mandi.ErrSourceUnavailable, status),
		}
	}

	return nil, &mandi.SourceError{
		Source: p.Name(),
		Err:    fmt.Errorf("%w: live price API requires session auth, not implemented", mandi.ErrSourceUnavailable),
	}
}
