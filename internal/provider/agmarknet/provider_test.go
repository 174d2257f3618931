package agmarknet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

func TestProvider_Name(t *testing.T) {
	t.Parallel()

	p := New(Config{}, zap.NewNop())
	require.Equal(t, mandi.SourceAgmarknet, p.Name())
}

func TestProvider_PortalReachableStillUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><form id=\"aspnetForm\"></form></html>"))
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
	records, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "Delhi"})

	require.Nil(t, records)
	require.ErrorIs(t, err, mandi.ErrSourceUnavailable)
	require.True(t, mandi.IsRetryable(err))
}

func TestProvider_HTTPErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
	_, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "Delhi"})

	require.ErrorIs(t, err, mandi.ErrSourceUnavailable)
}

func TestProvider_UnreachablePortalIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	p := New(Config{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	_, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "Delhi"})

	require.ErrorIs(t, err, mandi.ErrSourceUnavailable)
}
