/*
Copyright © 2022 The Vita Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	devConfig "github.com/vitahq/vita/dev/config"
	"github.com/vitahq/vita/server"
	"github.com/vitahq/vita/utils"
)

// Secrets that can be passed in as env vars instead of living in the config file
var secretEnvBindings = map[string]string{
	"vita.privateKeyPem":            "VITA_PRIVATE_KEY_PEM",
	"database.dsn":                  "DATABASE_DSN",
	"sqlite.passPhrase":             "SQLITE_PASSPHRASE",
	"redis.password":                "REDIS_PASSWORD",
	"google.applicationCredentials": "GOOGLE_APPLICATION_CREDENTIALS",
	"twilio.accountSid":             "TWILIO_ACCOUNT_SID",
	"twilio.authToken":              "TWILIO_AUTH_TOKEN",
	"smtp.password":                 "SMTP_PASSWORD",
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a vita server",
	Long: `The vita server exposes the JSON api for resource listings, emergency
contacts and SOS alerts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := serverConfig()
		if err != nil {
			return err
		}

		server.Start(config, isDevEnv)
		return nil
	},
}

var serverConfigFile string

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
}

func serverConfig() (*viper.Viper, error) {
	if isDevEnv && serverConfigFile == "" {
		configFilePath, err := devConfigFilePath()
		if err != nil {
			return nil, err
		}
		serverConfigFile = configFilePath
	}

	if serverConfigFile == "" {
		return nil, formattedError("'--sconfig' is required when not running with '--dev'")
	}

	return readServerConfig(serverConfigFile)
}

func readServerConfig(configFile string) (*viper.Viper, error) {
	config := viper.New()
	config.SetConfigFile(configFile)

	// Env vars override whatever is in the config file e.g. VITA_LISTENER_PORT for vita.listener.port
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range secretEnvBindings {
		config.BindEnv(key, env)
	}
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		return nil, formattedError("error reading server config file: %v", err)
	}

	return config, nil
}

// devConfigFilePath returns dev/config/server.yml in the current directory,
// creating it from the default dev config if it doesn't exist yet
func devConfigFilePath() (string, error) {
	configDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	configDir = filepath.Join(configDir, "dev", "config")
	configFilePath := filepath.Join(configDir, "server.yml")
	if utils.FileExist(configFilePath) {
		return configFilePath, nil
	}

	if err := utils.CreateDirIfNotExist(configDir); err != nil {
		return "", err
	}

	return configFilePath, os.WriteFile(configFilePath, []byte(devConfig.SERVER_YML), 0600)
}
