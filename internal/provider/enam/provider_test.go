package enam

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
	require.Equal(t, mandi.SourceEnam, p.Name())
}

func TestProvider_DashboardReachableStillUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>live price dashboard</html>"))
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
	records, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "Punjab", CropName: "Wheat"})

	require.Nil(t, records)
	require.ErrorIs(t, err, mandi.ErrSourceUnavailable)
	require.True(t, mandi.IsRetryable(err))
}
