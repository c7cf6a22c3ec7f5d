package main

import (
	"io"
	"os"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/fleettrack/cli/tracker/auth"
	"github.com/openfleet/fleettrack/cli/tracker/config"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestGetConfigRequiresPath(t *testing.T) {
	_, err := getConfig("")
	assert.Error(t, err)
}

func TestGetConfigFromExample(t *testing.T) {
	conf, err := getConfig("../../configs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", conf.GetListenAddress())
	assert.Equal(t, "static", conf.Auth.Mode)
	assert.Equal(t, 5*time.Minute, conf.GetStaleAfter())
}

func TestBuildVerifierStatic(t *testing.T) {
	conf := config.Settings{Auth: config.Auth{
		Mode:   "static",
		Tokens: map[string]string{"t": "s"},
	}}

	v, err := buildVerifier(conf)
	require.NoError(t, err)
	assert.IsType(t, &auth.StaticVerifier{}, v)
}

func TestBuildVerifierStaticWithoutTokens(t *testing.T) {
	conf := config.Settings{Auth: config.Auth{Mode: "static"}}
	_, err := buildVerifier(conf)
	assert.Error(t, err)
}

func TestBuildVerifierRemote(t *testing.T) {
	conf := config.Settings{Auth: config.Auth{
		Mode:     "remote",
		Endpoint: "http://localhost:8081/introspect",
		Timeout:  5,
	}}

	v, err := buildVerifier(conf)
	require.NoError(t, err)
	assert.IsType(t, &auth.RemoteVerifier{}, v)
}

func TestBuildVerifierUnknownMode(t *testing.T) {
	conf := config.Settings{Auth: config.Auth{Mode: "oauth"}}
	_, err := buildVerifier(conf)
	assert.Error(t, err)
}
