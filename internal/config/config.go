// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvJSON names the environment variable holding a JSON document merged over main.toml.
const EnvJSON = "DMS_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(path + "main.toml")
	v.SetConfigType("toml")
	v.SetEnvPrefix("DMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	if err = validate(&c); err != nil {
		return c, err
	}

	return c, nil
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	t := toml.NewEncoder(&buffer)
	t.SetIndentTables(true)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the config settings every service depends on and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if len(c.Services) == 0 {
		return errors.Wrap(ErrNoServices, invalidErrMessage)
	}

	ports := make(map[int]string, len(c.Services))

	for name, svc := range c.Services {
		if svc.Port == 0 {
			return errors.Wrapf(ErrWebServerPortCanNotBeZero, "%s: service %s", invalidErrMessage, name)
		}

		if other, ok := ports[svc.Port]; ok {
			return errors.Wrapf(ErrDuplicatePort, "%s: services %s and %s", invalidErrMessage, other, name)
		}

		ports[svc.Port] = name
	}

	if c.Auth.JWT.Enabled && c.Auth.JWT.Key == "" {
		return errors.Wrap(ErrEmptyJWTKey, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "", DBEngineSQLite, DBEnginePostgres, DBEngineMySQL:
	default:
		return errors.Wrapf(ErrUnknownDBEngine, "%s: %s", invalidErrMessage, c.DB.GormEngine)
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = DBEngineSQLite
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Auth.JWT.Issuer == "" {
		c.Auth.JWT.Issuer = DefaultJWTIssuer
	}

	if c.Auth.JWT.Audience == "" {
		c.Auth.JWT.Audience = DefaultJWTAudience
	}

	if c.Auth.JWT.AccessTokenExpiry == 0 {
		c.Auth.JWT.AccessTokenExpiry = DefaultAccessTokenExpiry
	}

	if c.Auth.JWT.RefreshTokenExpiry == 0 {
		c.Auth.JWT.RefreshTokenExpiry = DefaultRefreshTokenExpiry
	}

	if c.Reporting.ReportRefreshSpec == "" {
		c.Reporting.ReportRefreshSpec = DefaultReportRefreshSpec
	}

	if c.Reporting.DataMartRefreshSpec == "" {
		c.Reporting.DataMartRefreshSpec = DefaultDataMartRefreshSpec
	}

	if c.Reporting.ExportRetention == 0 {
		c.Reporting.ExportRetention = DefaultExportRetention
	}

	if c.Settings.Backend == "" {
		c.Settings.Backend = SettingsBackendSQL
	}

	return nil
}
