package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	logging "github.com/textileio/go-log/v2"
)

func TestSetLogLevels(t *testing.T) {
	logging.Logger("settler/logging-test")

	err := SetLogLevels(map[string]logging.LogLevel{"settler/logging-test": logging.LevelDebug})
	require.NoError(t, err)
	err = SetLogLevels(map[string]logging.LogLevel{"*": logging.LevelWarn})
	require.NoError(t, err)
	err = SetLogLevels(map[string]logging.LogLevel{"settler/unknown-subsystem": logging.LevelDebug})
	require.Error(t, err)
}

func TestParseLogLevels(t *testing.T) {
	levels, err := ParseLogLevels("")
	require.NoError(t, err)
	require.Empty(t, levels)

	levels, err = ParseLogLevels("settler/queue=debug, stripegw=warn")
	require.NoError(t, err)
	require.Equal(t, map[string]logging.LogLevel{
		"settler/queue": logging.LevelDebug,
		"stripegw":      logging.LevelWarn,
	}, levels)

	_, err = ParseLogLevels("settler")
	require.Error(t, err)
	_, err = ParseLogLevels("settler=loud")
	require.Error(t, err)
}

func TestApplyLogLevels(t *testing.T) {
	logging.Logger("settler/apply-test")

	require.NoError(t, ApplyLogLevels(""))
	require.NoError(t, ApplyLogLevels("settler/apply-test=error"))
	require.Error(t, ApplyLogLevels("settler/apply-test"))
	require.Error(t, ApplyLogLevels("settler/never-registered=debug"))
}
