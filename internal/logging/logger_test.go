package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"error", logrus.ErrorLevel},
		{"fatal", logrus.FatalLevel},
		{"info", logrus.InfoLevel},
		{"trace", logrus.TraceLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, GetLevel(tc.in))
		})
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	dir := t.TempDir()
	Setup(LoggerSetupParams{
		LogFileName: filepath.Join(dir, "nested", "shopfront"),
		LogLevel:    "debug",
	})
	logrus.Debug("hello from test")

	data, err := os.ReadFile(filepath.Join(dir, "nested", "shopfront.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}
