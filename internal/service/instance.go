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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fbdialect/internal/adapter"
	"github.com/fbdialect/internal/adapter/firebird"
	"github.com/fbdialect/internal/metrics"
	"github.com/fbdialect/internal/util"
)

// InstanceService manages the connection to one Firebird database:
// connecting with retries, health checks and version lookups.
type InstanceService struct {
	baseService
	adapter adapter.DatabaseAdapter
	config  *Config
}

// NewInstanceService creates the Firebird adapter for cfg and wires its
// logger, query metrics and reflection concurrency.
func NewInstanceService(cfg *Config) (*InstanceService, error) {
	if cfg == nil {
		return nil, &ValidationError{Field: "config", Message: "config is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbAdapter, err := adapter.NewAdapter(adapter.EngineFirebird, cfg.ToAdapterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}
	if fb, ok := dbAdapter.(*firebird.Adapter); ok {
		fb.WithLogger(cfg.GetLogger()).
			WithQueryObserver(metrics.ObserveQuery).
			WithReflectConcurrency(cfg.ReflectConcurrency)
	}

	return NewInstanceServiceWithAdapter(dbAdapter, cfg), nil
}

// NewInstanceServiceWithAdapter creates an InstanceService with a pre-created adapter.
func NewInstanceServiceWithAdapter(adp adapter.DatabaseAdapter, cfg *Config) *InstanceService {
	return &InstanceService{
		baseService: newBaseService(cfg, "InstanceService"),
		adapter:     adp,
		config:      cfg,
	}
}

// Connect attaches to the database. Transient failures such as a server
// still starting up are retried with backoff; each attempt gets the full
// connect timeout.
func (s *InstanceService) Connect(ctx context.Context) error {
	op := s.startOp("Connect", s.config.Endpoint())
	start := time.Now()

	result := util.RetryWithBackoff(ctx, s.config.Retry, func() error {
		attemptCtx, cancel := s.config.Timeouts.WithConnectTimeout(ctx)
		defer cancel()

		err := s.adapter.Connect(attemptCtx)
		if err != nil {
			metrics.RecordConnectionAttempt(s.config.Database, metrics.StatusFailure)
			op.Debug("connect attempt failed", "error", err.Error())
			if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return NewTimeoutError("connect", s.config.Endpoint(), s.config.Timeouts.ConnectTimeout.String(), err)
			}
			return err
		}
		metrics.RecordConnectionAttempt(s.config.Database, metrics.StatusSuccess)
		return nil
	})

	if err := result.LastError; err != nil {
		op.Error(err, "failed to connect")
		if IsTimeout(err) {
			return err
		}
		return &ConnectionError{Host: s.config.Host, Port: s.config.Port, Attempts: result.Attempts, Err: err}
	}

	metrics.RecordConnectionLatency(s.config.Database, time.Since(start).Seconds())
	if v, err := s.adapter.ServerVersion(ctx); err == nil {
		metrics.SetServerVersion(s.config.Database, v.String())
	}

	op.Success("connected successfully", "attempts", result.Attempts)
	return nil
}

// Close closes the database connection.
func (s *InstanceService) Close() error {
	if s.adapter != nil {
		return s.adapter.Close()
	}
	return nil
}

// Adapter returns the underlying adapter for the other services.
func (s *InstanceService) Adapter() adapter.DatabaseAdapter {
	return s.adapter
}

// Config returns the service configuration.
func (s *InstanceService) Config() *Config {
	return s.config
}

// HealthCheckResult contains the result of a health check.
type HealthCheckResult struct {
	Healthy       bool          `json:"healthy"`
	Version       string        `json:"version"`
	ServerVersion string        `json:"serverVersion,omitempty"`
	Message       string        `json:"message"`
	Latency       time.Duration `json:"latency"`
	ErrorMessage  string        `json:"error,omitempty"`
}

// HealthCheck pings the server and reports its release.
func (s *InstanceService) HealthCheck(ctx context.Context) (*HealthCheckResult, error) {
	op := s.startOp("HealthCheck", s.config.Endpoint())

	result := &HealthCheckResult{}

	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	if err := s.adapter.Ping(ctx); err != nil {
		op.Error(err, "health check failed - ping error")
		result.ErrorMessage = fmt.Sprintf("Ping failed: %v", err)
		result.Message = "Database is not healthy"
		return result, s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "ping", s.config.Endpoint(), err)
	}
	result.Latency = time.Since(start)

	// The version is informative only.
	version, err := s.adapter.GetVersion(ctx)
	if err != nil {
		op.Debug("version retrieval failed", "error", err.Error())
		version = "unknown"
	}
	result.Version = version
	if sv, err := s.adapter.ServerVersion(ctx); err == nil {
		result.ServerVersion = sv.String()
	}

	result.Healthy = true
	result.Message = fmt.Sprintf("Connected to Firebird %s", result.Version)

	op.Success("health check passed")
	return result, nil
}

// TestConnection wraps HealthCheck in a Result.
func (s *InstanceService) TestConnection(ctx context.Context) (*Result, error) {
	op := s.startOp("TestConnection", s.config.Endpoint())

	health, err := s.HealthCheck(ctx)
	if err != nil {
		op.Error(err, "connection test failed")
		return nil, err
	}

	op.Success("connection test passed")
	return NewSuccessResult(health.Message).WithData(map[string]interface{}{
		"version": health.Version,
		"latency": health.Latency.String(),
	}), nil
}

// GetVersion returns the engine version string, e.g. "4.0.2".
func (s *InstanceService) GetVersion(ctx context.Context) (string, error) {
	op := s.startOp("GetVersion", s.config.Endpoint())

	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	version, err := s.adapter.GetVersion(ctx)
	if err != nil {
		op.Error(err, "failed to get version")
		return "", s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "get version", s.config.Endpoint(), err)
	}

	op.Success("retrieved version")
	return version, nil
}

// Ping verifies the database connection is alive.
func (s *InstanceService) Ping(ctx context.Context) error {
	op := s.startOp("Ping", s.config.Endpoint())

	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	if err := s.adapter.Ping(ctx); err != nil {
		op.Error(err, "ping failed")
		return s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "ping", s.config.Endpoint(), err)
	}

	op.Success("ping successful")
	return nil
}
