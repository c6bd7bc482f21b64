package infrastructure

import (
	"net/http"

	"go.uber.org/zap"

	"user-sync/internal/adapter/remote/jsonplaceholder"
	"user-sync/internal/config"
)

// NewUpstreamClient builds the remote user service client.
func NewUpstreamClient(cfg *config.Config, l *zap.Logger) *jsonplaceholder.Client {
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout()}
	client := jsonplaceholder.NewClient(cfg.Upstream.BaseURL, httpClient, l.Named("upstream"))

	l.Info("remote user service configured",
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", cfg.Upstream.Timeout()),
	)

	return client
}
