package logger_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntnn/paperwork.go/pkg/logger"
)

func TestLogToBuffer(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	log, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, log)

	require.Equal(t, 0, buff.Len())
	log.Logger.Info().Msg("Test")
	require.Contains(t, buff.String(), "Test")
}

func TestLogToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paperwork.log")
	log, err := logger.New().FromPath(path).Make()
	require.NoError(t, err)
	require.NotNil(t, log.LogFile)
	defer log.LogFile.Close()

	log.Logger.Info().Msg("Test")

	require.FileExists(t, path)
}
