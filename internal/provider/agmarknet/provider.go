// Package agmarknet accesses the AGMARKNET portal, the official Indian
// government source for daily mandi prices.
package agmarknet

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
	defaultBaseURL = "http://agmarknet.gov.in"
	reportPath     = "/PriceAndArrivals/CommodityWiseDailyReport.aspx"
	defaultTimeout = 15 * time.Second
)

// Config controls portal access.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Provider implements mandi.Provider against AGMARKNET.
//
// The daily report page is an ASP.NET form: fetching prices requires a
// viewstate round-trip with state/district/commodity selections. That form
// handling is not implemented yet, so Fetch probes the portal and reports
// SourceUnavailable, which the orchestrator treats like any network failure.
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
	return mandi.SourceAgmarknet
}

// Fetch probes the daily report page. It currently always fails with
// SourceUnavailable; network and HTTP errors surface the same way so the
// retry policy sees a uniform taxonomy.
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

	p.logger.Debug("probing agmarknet",
		zap.String("state", query.State),
		zap.String("district", query.District),
		zap.String("crop", query.CropName),
	)

	if err := collector.Visit(p.cfg.BaseURL + reportPath); err != nil {
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

	// Reached the portal, but the report itself needs the form submission
	// flow. TODO: implement the viewstate round-trip and parse the result
	// table into PriceRecords.
	return nil, &mandi.SourceError{
		Source: p.Name(),
		Err:    fmt.Errorf("%w: report form submission not implemented", mandi.ErrSourceUnavailable),
	}
}
