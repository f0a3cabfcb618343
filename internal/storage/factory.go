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

package storage

import (
	"context"
	"fmt"
	"strings"
)

// Backend kinds
const (
	BackendFile  = "file"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendAzure = "azure"
)

// Config selects and configures a snapshot backend.
type Config struct {
	Backend string      `mapstructure:"backend"`
	File    FileConfig  `mapstructure:"file"`
	S3      S3Config    `mapstructure:"s3"`
	GCS     GCSConfig   `mapstructure:"gcs"`
	Azure   AzureConfig `mapstructure:"azure"`
}

// FileConfig configures the local filesystem backend.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// S3Config configures an S3-compatible bucket. Empty keys fall back to
// the default AWS credential chain.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	ForcePathStyle  bool   `mapstructure:"forcePathStyle"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

// GCSConfig configures a Google Cloud Storage bucket. Without credentials
// the application default credentials are used.
type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	CredentialsFile string `mapstructure:"credentialsFile"`
	Endpoint        string `mapstructure:"endpoint"`
}

// AzureConfig configures an Azure Blob container.
type AzureConfig struct {
	StorageAccount string `mapstructure:"storageAccount"`
	Container      string `mapstructure:"container"`
	Prefix         string `mapstructure:"prefix"`
	AccountKey     string `mapstructure:"accountKey"`
	// ServiceURL overrides https://<account>.blob.core.windows.net/
	ServiceURL string `mapstructure:"serviceURL"`
}

// NewBackend creates a storage backend from cfg
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendFile, "":
		return NewFileBackend(cfg.File)
	case BackendS3:
		return NewS3Backend(ctx, cfg.S3)
	case BackendGCS:
		return NewGCSBackend(ctx, cfg.GCS)
	case BackendAzure:
		return NewAzureBackend(cfg.Azure)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func joinKey(prefix, objectPath string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return objectPath
	}
	return prefix + "/" + strings.TrimPrefix(objectPath, "/")
}

func relativeKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}
