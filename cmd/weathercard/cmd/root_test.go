package cmd_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercard/weathercard/cmd/weathercard/cmd"
)

func cwaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/O-A0003-001"):
			fmt.Fprintf(w, `{"success":"true","records":{"Station":[{"StationName":%q,
				"ObsTime":{"DateTime":"2026-10-19T09:00:00+08:00"},
				"WeatherElement":{"WindSpeed":"4.2","AirTemperature":"21.5"}}]}}`,
				r.URL.Query().Get("StationName"))
		case strings.HasSuffix(r.URL.Path, "/F-C0032-001"):
			fmt.Fprintf(w, `{"success":"true","records":{"location":[{"locationName":%q,"weatherElement":[
				{"elementName":"Wx","time":[{"parameter":{"parameterName":"陰時多雲短暫雨","parameterValue":"12"}}]},
				{"elementName":"PoP","time":[{"parameter":{"parameterName":"60"}}]},
				{"elementName":"CI","time":[{"parameter":{"parameterName":"稍有寒意"}}]}]}]}}`,
				r.URL.Query().Get("locationName"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T, baseURL string) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "LOG_LEVEL", "FETCH_TIMEOUT", "FETCH_MAX_RETRIES", "DEFAULT_REGION", "SUN_TABLE_PATH", "OTEL_TRACES_SAMPLE_RATIO"} {
		t.Setenv(key, "")
	}
	t.Setenv("PREFERENCE_STORE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "prefs.db"))
	t.Setenv("CWA_API_KEY", "CWA-TEST-KEY")
	t.Setenv("CWA_BASE_URL", baseURL)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.Execute()
	return out.String(), err
}

func TestRegions_MarksDefault(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	out, err := run(t, "regions")
	require.NoError(t, err)
	assert.Regexp(t, `\*\s+臺北市\s+臺北`, out)
	assert.Contains(t, out, "花蓮縣")
}

func TestSetRegion_ThenShow(t *testing.T) {
	srv := cwaServer(t)
	setupEnv(t, srv.URL)

	out, err := run(t, "set-region", "花蓮縣")
	require.NoError(t, err)
	assert.Contains(t, out, "花蓮縣")

	out, err = run(t, "regions")
	require.NoError(t, err)
	assert.Regexp(t, `\*\s+花蓮縣`, out)

	out, err = run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "花蓮縣")
	assert.Contains(t, out, "陰時多雲短暫雨  22°C")
	assert.Contains(t, out, "rain 60%")
	assert.Contains(t, out, "observed 09:00 at 花蓮")
}

func TestShow_JSON(t *testing.T) {
	srv := cwaServer(t)
	setupEnv(t, srv.URL)

	out, err := run(t, "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"regionName": "臺北市"`)
	assert.Contains(t, out, `"roundedTemperature": 22`)
	assert.Contains(t, out, `"category": "partially-clear-with-rain"`)
}

func TestSetRegion_Unknown(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := run(t, "set-region", "東京都")
	require.Error(t, err)
}

func TestShow_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	_, err := run(t, "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching weather")
}
