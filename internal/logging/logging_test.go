package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/config"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/logging"
)

func TestNewJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotmatch.log")

	entry, closer, err := logging.New(config.LogConfig{Level: "debug", Format: "json", File: path}, "plotmatch-test")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())

	entry.WithField("movies", 3).Info("Recommendation engine ready")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "plotmatch-test", line["service"])
	assert.Equal(t, "Recommendation engine ready", line["msg"])
	assert.Equal(t, float64(3), line["movies"])
	assert.NotContains(t, line, "func")
}

func TestNewReportCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caller.log")

	entry, closer, err := logging.New(config.LogConfig{Level: "info", Format: "json", File: path, Caller: true}, "svc")
	require.NoError(t, err)
	assert.True(t, entry.Logger.ReportCaller)

	entry.Info("Startup")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Contains(t, line["func"], "TestNewReportCaller")
	assert.Contains(t, line["file"], "logging_test.go")
}

func TestNewTextDefault(t *testing.T) {
	entry, closer, err := logging.New(config.LogConfig{Level: "warn", Format: "text"}, "svc")
	require.NoError(t, err)
	defer closer.Close()

	assert.IsType(t, &logrus.TextFormatter{}, entry.Logger.Formatter)
	assert.Equal(t, logrus.WarnLevel, entry.Logger.GetLevel())
	assert.Equal(t, "svc", entry.Data["service"])
}

func TestNewInvalid(t *testing.T) {
	_, _, err := logging.New(config.LogConfig{Level: "loud", Format: "text"}, "svc")
	assert.Error(t, err)

	_, _, err = logging.New(config.LogConfig{Level: "info", File: filepath.Join(t.TempDir(), "no", "such", "dir.log")}, "svc")
	assert.Error(t, err)
}
