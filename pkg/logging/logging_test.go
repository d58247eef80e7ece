package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLoggerVerbosityLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		want      zerolog.Level
	}{
		{"default is warn", 0, zerolog.WarnLevel},
		{"one v is info", 1, zerolog.InfoLevel},
		{"two v is debug", 2, zerolog.DebugLevel},
		{"three v is trace", 3, zerolog.TraceLevel},
		{"beyond three stays trace", 7, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogger(tt.verbosity)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestGetLoggerIsUsable(t *testing.T) {
	logger := GetLogger("hook.usvfs")
	// Must not panic and must accept structured fields.
	logger.Debug().Str("exe", `C:\Games\Foo\foo.exe`).Msg("test message")
}

func TestLogFilePath(t *testing.T) {
	path := LogFilePath()
	assert.Equal(t, LogFileName, filepath.Base(path))
	assert.Contains(t, path, "modvfs")
}
