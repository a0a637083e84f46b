package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	devConfig "github.com/vitahq/vita/dev/config"
)

func writeTestConfig(t *testing.T) string {
	configFile := filepath.Join(t.TempDir(), "server.yml")
	require.Nil(t, os.WriteFile(configFile, []byte(devConfig.SERVER_YML), 0600))
	return configFile
}

func TestReadServerConfig(t *testing.T) {
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("VITA_LISTENER_PORT", "8080")

	config, err := readServerConfig(writeTestConfig(t))
	require.Nil(t, err)

	assert.Equal(t, "sqlite", config.GetString("database.driver"))
	assert.Equal(t, "UTC", config.GetString("vita.cron.timeZone"))
	assert.Equal(t, "secret-token", config.GetString("twilio.authToken"))
	assert.Equal(t, 8080, config.GetInt("vita.listener.port"))
}

func TestReadServerConfigMissingFile(t *testing.T) {
	_, err := readServerConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.NotNil(t, err)
}

func TestServerConfigRequiresFileOutsideDevMode(t *testing.T) {
	isDevEnv, serverConfigFile = false, ""

	_, err := serverConfig()
	assert.NotNil(t, err)
}

func TestRootCmd(t *testing.T) {
	cmd := createRootCmd()
	assert.Equal(t, "vita", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("dev"))
}
