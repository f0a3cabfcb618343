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
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/fbdialect/internal/adapter"
	"github.com/fbdialect/internal/adapter/firebird"
	"github.com/fbdialect/internal/shared/eventbus"
	"github.com/fbdialect/internal/util"
)

// Connection defaults
const (
	DefaultPort     int32 = 3050
	DefaultUsername       = "SYSDBA"
	DefaultCharset        = "UTF8"
)

// Config holds the connection and runtime settings shared by services.
// It is populated from FBCTL_* environment variables, a config file or
// the ConfigBuilder.
type Config struct {
	Host     string
	Port     int32
	Database string
	Username string
	Password string

	Role       string
	Charset    string
	AuthPlugin string
	WireCrypt  *bool
	Timezone   string

	// IsolationLevel is one of firebird.IsolationLevelValues; empty means
	// READ COMMITTED.
	IsolationLevel string
	ReadOnly       bool

	// Params are passed through to the driver DSN.
	Params map[string]string

	// Timeouts wrap context deadlines around adapter calls.
	Timeouts util.TimeoutConfig

	// Retry governs reconnect attempts in InstanceService.Connect.
	Retry util.RetryConfig

	// ReflectConcurrency bounds tables reflected in parallel; 0 keeps the
	// adapter default.
	ReflectConcurrency int

	Logger   logr.Logger
	EventBus eventbus.Bus
}

// GetLogger returns the configured logger or a discarding one.
func (c *Config) GetLogger() logr.Logger {
	if c == nil || c.Logger.GetSink() == nil {
		return logr.Discard()
	}
	return c.Logger
}

// ConfigFromEnv creates a Config from environment variables:
//   - FBCTL_HOST, FBCTL_PORT (default 3050), FBCTL_DATABASE
//   - FBCTL_USERNAME (default SYSDBA), FBCTL_PASSWORD, FBCTL_ROLE
//   - FBCTL_CHARSET (default UTF8), FBCTL_AUTH_PLUGIN, FBCTL_WIRE_CRYPT, FBCTL_TIMEZONE
//   - FBCTL_ISOLATION_LEVEL, FBCTL_READ_ONLY
//   - FBCTL_CONNECT_TIMEOUT, FBCTL_QUERY_TIMEOUT, FBCTL_EXEC_TIMEOUT, FBCTL_REFLECT_TIMEOUT
//   - FBCTL_CONNECT_RETRIES, FBCTL_REFLECT_CONCURRENCY
func ConfigFromEnv(getEnv func(string) string) (*Config, error) {
	cfg := &Config{
		Host:           getEnv("FBCTL_HOST"),
		Database:       getEnv("FBCTL_DATABASE"),
		Username:       getEnv("FBCTL_USERNAME"),
		Password:       getEnv("FBCTL_PASSWORD"),
		Role:           getEnv("FBCTL_ROLE"),
		Charset:        getEnv("FBCTL_CHARSET"),
		AuthPlugin:     getEnv("FBCTL_AUTH_PLUGIN"),
		Timezone:       getEnv("FBCTL_TIMEZONE"),
		IsolationLevel: getEnv("FBCTL_ISOLATION_LEVEL"),
		Port:           DefaultPort,
		Timeouts:       util.DefaultTimeoutConfig(),
		Retry:          util.ConnectionRetryConfig(),
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.Charset == "" {
		cfg.Charset = DefaultCharset
	}

	if portStr := getEnv("FBCTL_PORT"); portStr != "" {
		port, err := strconv.ParseInt(portStr, 10, 32)
		if err != nil {
			return nil, &ValidationError{Field: "FBCTL_PORT", Message: "invalid port number"}
		}
		cfg.Port = int32(port)
	}

	if v := getEnv("FBCTL_WIRE_CRYPT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &ValidationError{Field: "FBCTL_WIRE_CRYPT", Message: "must be true or false"}
		}
		cfg.WireCrypt = &b
	}
	if v := getEnv("FBCTL_READ_ONLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &ValidationError{Field: "FBCTL_READ_ONLY", Message: "must be true or false"}
		}
		cfg.ReadOnly = b
	}

	durations := []struct {
		env    string
		target *time.Duration
	}{
		{"FBCTL_CONNECT_TIMEOUT", &cfg.Timeouts.ConnectTimeout},
		{"FBCTL_QUERY_TIMEOUT", &cfg.Timeouts.QueryTimeout},
		{"FBCTL_EXEC_TIMEOUT", &cfg.Timeouts.ExecTimeout},
		{"FBCTL_REFLECT_TIMEOUT", &cfg.Timeouts.ReflectTimeout},
	}
	for _, d := range durations {
		v := getEnv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, &ValidationError{Field: d.env, Message: "invalid duration format"}
		}
		*d.target = parsed
	}

	ints := []struct {
		env    string
		target *int
	}{
		{"FBCTL_CONNECT_RETRIES", &cfg.Retry.MaxRetries},
		{"FBCTL_REFLECT_CONCURRENCY", &cfg.ReflectConcurrency},
	}
	for _, i := range ints {
		v := getEnv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, &ValidationError{Field: i.env, Message: "must be a non-negative integer"}
		}
		*i.target = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToAdapterConfig converts service config to adapter connection config.
func (c *Config) ToAdapterConfig() adapter.ConnectionConfig {
	return adapter.ConnectionConfig{
		Host:           c.Host,
		Port:           c.Port,
		Database:       c.Database,
		Username:       c.Username,
		Password:       c.Password,
		Role:           c.Role,
		Charset:        c.Charset,
		WireCrypt:      c.WireCrypt,
		AuthPlugin:     c.AuthPlugin,
		Timezone:       c.Timezone,
		IsolationLevel: c.IsolationLevel,
		ReadOnly:       c.ReadOnly,
		Params:         c.Params,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c == nil {
		return &ValidationError{Field: "config", Message: "config is nil"}
	}
	if c.Host == "" {
		return &ValidationError{Field: "host", Message: "host is required"}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &ValidationError{Field: "port", Message: "port must be between 1 and 65535"}
	}
	if c.Database == "" {
		return &ValidationError{Field: "database", Message: "database path or alias is required"}
	}
	if c.Username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if _, err := firebird.ParseTxMode(c.IsolationLevel, c.ReadOnly); err != nil {
		return &ValidationError{Field: "isolationLevel", Message: err.Error()}
	}
	if c.ReflectConcurrency < 0 {
		return &ValidationError{Field: "reflectConcurrency", Message: "must not be negative"}
	}
	if c.Retry.MaxRetries < 0 {
		return &ValidationError{Field: "retry.maxRetries", Message: "must not be negative"}
	}
	return nil
}

// Endpoint renders host:port/database for messages.
func (c *Config) Endpoint() string {
	return c.Host + ":" + strconv.Itoa(int(c.Port)) + "/" + c.Database
}

// WithTimeouts returns a copy of the config with the specified timeout configuration.
func (c *Config) WithTimeouts(timeouts util.TimeoutConfig) *Config {
	cpy := c.Clone()
	cpy.Timeouts = timeouts
	return cpy
}

// Clone returns a deep copy of the config. Logger and EventBus are shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cpy := *c
	if c.WireCrypt != nil {
		v := *c.WireCrypt
		cpy.WireCrypt = &v
	}
	if c.Params != nil {
		cpy.Params = make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			cpy.Params[k] = v
		}
	}
	return &cpy
}

// ConfigBuilder provides a fluent interface for building Config objects.
//
//	cfg := NewConfigBuilder().
//	    WithHost("localhost").
//	    WithDatabase("/data/employee.fdb").
//	    WithCredentials("SYSDBA", "masterkey").
//	    WithIsolation("REPEATABLE_READ", false).
//	    Build()
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder starts from the default port, user, charset, timeouts
// and retry policy.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: &Config{
			Port:     DefaultPort,
			Username: DefaultUsername,
			Charset:  DefaultCharset,
			Timeouts: util.DefaultTimeoutConfig(),
			Retry:    util.ConnectionRetryConfig(),
		},
	}
}

func (b *ConfigBuilder) WithHost(host string) *ConfigBuilder {
	b.config.Host = host
	return b
}

func (b *ConfigBuilder) WithPort(port int32) *ConfigBuilder {
	b.config.Port = port
	return b
}

// WithDatabase sets the database path or server alias.
func (b *ConfigBuilder) WithDatabase(database string) *ConfigBuilder {
	b.config.Database = database
	return b
}

func (b *ConfigBuilder) WithCredentials(username, password string) *ConfigBuilder {
	b.config.Username = username
	b.config.Password = password
	return b
}

// WithRole sets the SQL role attached at connect time.
func (b *ConfigBuilder) WithRole(role string) *ConfigBuilder {
	b.config.Role = role
	return b
}

func (b *ConfigBuilder) WithCharset(charset string) *ConfigBuilder {
	b.config.Charset = charset
	return b
}

// WithWireCrypt forces wire encryption on or off.
func (b *ConfigBuilder) WithWireCrypt(enabled bool) *ConfigBuilder {
	b.config.WireCrypt = &enabled
	return b
}

// WithAuthPlugin selects the authentication plugin, e.g. "Srp256".
func (b *ConfigBuilder) WithAuthPlugin(plugin string) *ConfigBuilder {
	b.config.AuthPlugin = plugin
	return b
}

// WithIsolation sets the transaction isolation level. Underscores are
// accepted in place of spaces.
func (b *ConfigBuilder) WithIsolation(level string, readOnly bool) *ConfigBuilder {
	b.config.IsolationLevel = strings.ReplaceAll(strings.ToUpper(level), "_", " ")
	b.config.ReadOnly = readOnly
	return b
}

// WithParam adds a raw DSN parameter.
func (b *ConfigBuilder) WithParam(key, value string) *ConfigBuilder {
	if b.config.Params == nil {
		b.config.Params = map[string]string{}
	}
	b.config.Params[key] = value
	return b
}

func (b *ConfigBuilder) WithTimeouts(timeouts util.TimeoutConfig) *ConfigBuilder {
	b.config.Timeouts = timeouts
	return b
}

func (b *ConfigBuilder) WithDefaultTimeouts() *ConfigBuilder {
	b.config.Timeouts = util.DefaultTimeoutConfig()
	return b
}

// WithFastTimeouts is meant for tests.
func (b *ConfigBuilder) WithFastTimeouts() *ConfigBuilder {
	b.config.Timeouts = util.FastTimeoutConfig()
	return b
}

func (b *ConfigBuilder) WithNoTimeouts() *ConfigBuilder {
	b.config.Timeouts = util.NoTimeoutConfig()
	return b
}

// WithRetry replaces the connect retry policy.
func (b *ConfigBuilder) WithRetry(retry util.RetryConfig) *ConfigBuilder {
	b.config.Retry = retry
	return b
}

func (b *ConfigBuilder) WithReflectConcurrency(n int) *ConfigBuilder {
	b.config.ReflectConcurrency = n
	return b
}

func (b *ConfigBuilder) WithLogger(log logr.Logger) *ConfigBuilder {
	b.config.Logger = log
	return b
}

// WithEventBus makes services publish their events on bus.
func (b *ConfigBuilder) WithEventBus(bus eventbus.Bus) *ConfigBuilder {
	b.config.EventBus = bus
	return b
}

// Build validates and returns the Config.
func (b *ConfigBuilder) Build() (*Config, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild is Build that panics on an invalid config.
func (b *ConfigBuilder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Result holds the result of a service operation.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Created is set when the operation created schema objects
	Created bool `json:"created,omitempty"`

	// Updated is set when existing objects were altered
	Updated bool `json:"updated,omitempty"`

	Data interface{} `json:"data,omitempty"`
}

// NewSuccessResult creates a successful result with a message.
func NewSuccessResult(message string) *Result {
	return &Result{Success: true, Message: message}
}

// NewCreatedResult creates a result for newly created objects.
func NewCreatedResult(message string) *Result {
	return &Result{Success: true, Message: message, Created: true}
}

// NewUpdatedResult creates a result for altered objects.
func NewUpdatedResult(message string) *Result {
	return &Result{Success: true, Message: message, Updated: true}
}

// WithData attaches operation specific data.
func (r *Result) WithData(data interface{}) *Result {
	r.Data = data
	return r
}
