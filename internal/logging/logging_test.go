package logging

import (
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_NamedLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)

	logger := p.GetLogger("proofmd.server")
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Debug("logger.initialised", "component", "server")
	})
	assert.NotNil(t, p.GetLogger("  "))
}

func TestNewProvider_RejectsUnknownFormat(t *testing.T) {
	_, err := NewProvider(Config{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, glog.Warn, normalizeLevel(" WARNING "))
	assert.Equal(t, glog.Info, normalizeLevel("info"))
	assert.Equal(t, "", normalizeLevel("verbose"))
}
