package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"user-sync/internal/config"
)

func TestNewUpstreamClient(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := &config.Config{Upstream: config.UpstreamConfig{BaseURL: "http://localhost:3000", TimeoutSeconds: 5}}

	client := NewUpstreamClient(cfg, zap.New(core))

	assert.Equal(t, "http://localhost:3000", client.BaseURL())

	entries := logs.FilterMessage("remote user service configured").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "http://localhost:3000", fields["base_url"])
	}
}
