package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, true)
	logger.Debug("state transition", zap.String("to", "detecting"))
	require.NoError(t, logger.Sync())

	require.Contains(t, buf.String(), "state transition")
	require.Contains(t, buf.String(), "detecting")
}

func TestNew_Quiet(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, false)
	logger.Debug("state transition")
	logger.Error("boom")

	require.Empty(t, buf.String())
}
