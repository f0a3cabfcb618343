/*
Copyright 2026.

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

package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fbdialect/internal/storage"
	"github.com/fbdialect/internal/util"
)

// Settings is the layout of an fbctl config file. Every key can be
// overridden by FBCTL_<SECTION>_<KEY>, e.g. FBCTL_CONNECTION_HOST.
type Settings struct {
	Connection ConnectionSettings    `mapstructure:"connection"`
	Timeouts   TimeoutSettings       `mapstructure:"timeouts"`
	Reflection ReflectionSettings    `mapstructure:"reflection"`
	Storage    storage.Config        `mapstructure:"storage"`
	Snapshot   storage.ExportOptions `mapstructure:"snapshot"`
}

type ConnectionSettings struct {
	Host           string            `mapstructure:"host"`
	Port           int32             `mapstructure:"port"`
	Database       string            `mapstructure:"database"`
	Username       string            `mapstructure:"username"`
	Password       string            `mapstructure:"password"`
	Role           string            `mapstructure:"role"`
	Charset        string            `mapstructure:"charset"`
	AuthPlugin     string            `mapstructure:"authPlugin"`
	WireCrypt      *bool             `mapstructure:"wireCrypt"`
	Timezone       string            `mapstructure:"timezone"`
	IsolationLevel string            `mapstructure:"isolationLevel"`
	ReadOnly       bool              `mapstructure:"readOnly"`
	Params         map[string]string `mapstructure:"params"`
	Retries        int               `mapstructure:"retries"`
}

type TimeoutSettings struct {
	Connect time.Duration `mapstructure:"connect"`
	Query   time.Duration `mapstructure:"query"`
	Exec    time.Duration `mapstructure:"exec"`
	Reflect time.Duration `mapstructure:"reflect"`
}

type ReflectionSettings struct {
	Concurrency int `mapstructure:"concurrency"`
}

func setDefaults(v *viper.Viper) {
	timeouts := util.DefaultTimeoutConfig()

	v.SetDefault("connection.host", "")
	v.SetDefault("connection.port", DefaultPort)
	v.SetDefault("connection.database", "")
	v.SetDefault("connection.username", DefaultUsername)
	v.SetDefault("connection.password", "")
	v.SetDefault("connection.role", "")
	v.SetDefault("connection.charset", DefaultCharset)
	v.SetDefault("connection.authPlugin", "")
	v.SetDefault("connection.timezone", "")
	v.SetDefault("connection.isolationLevel", "")
	v.SetDefault("connection.readOnly", false)
	v.SetDefault("connection.retries", util.ConnectionRetryConfig().MaxRetries)

	v.SetDefault("timeouts.connect", timeouts.ConnectTimeout)
	v.SetDefault("timeouts.query", timeouts.QueryTimeout)
	v.SetDefault("timeouts.exec", timeouts.ExecTimeout)
	v.SetDefault("timeouts.reflect", timeouts.ReflectTimeout)

	v.SetDefault("reflection.concurrency", 0)

	v.SetDefault("storage.backend", storage.BackendFile)
	v.SetDefault("storage.file.dir", "snapshots")
	v.SetDefault("snapshot.format", storage.FormatJSON)
	v.SetDefault("snapshot.compression", storage.CompressionNone)
	v.SetDefault("snapshot.level", 0)
	v.SetDefault("snapshot.encryptionKey", "")
	v.SetDefault("snapshot.prefix", "")
}

// LoadSettings reads path, or fbctl.yaml from the working directory and
// $HOME/.config/fbctl when path is empty. A missing default file is not
// an error; a missing explicit file is.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FBCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fbctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/fbctl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &s, nil
}

// Config converts the connection, timeout and reflection sections.
func (s *Settings) Config() (*Config, error) {
	c := s.Connection
	retry := util.ConnectionRetryConfig()
	retry.MaxRetries = c.Retries

	cfg := &Config{
		Host:           c.Host,
		Port:           c.Port,
		Database:       c.Database,
		Username:       c.Username,
		Password:       c.Password,
		Role:           c.Role,
		Charset:        c.Charset,
		AuthPlugin:     c.AuthPlugin,
		WireCrypt:      c.WireCrypt,
		Timezone:       c.Timezone,
		IsolationLevel: c.IsolationLevel,
		ReadOnly:       c.ReadOnly,
		Params:         c.Params,
		Timeouts: util.TimeoutConfig{
			ConnectTimeout: s.Timeouts.Connect,
			QueryTimeout:   s.Timeouts.Query,
			ExecTimeout:    s.Timeouts.Exec,
			ReflectTimeout: s.Timeouts.Reflect,
		},
		Retry:              retry,
		ReflectConcurrency: s.Reflection.Concurrency,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
