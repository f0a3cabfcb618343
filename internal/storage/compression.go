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
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression algorithms
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionLZ4  = "lz4"
	CompressionZstd = "zstd"
)

// Compressor wraps streams with a compression algorithm.
type Compressor interface {
	// Name returns the algorithm name
	Name() string

	// Compress returns a writer that compresses into w; closing it
	// flushes the trailer but leaves w open
	Compress(w io.Writer) (io.WriteCloser, error)

	// Decompress returns a reader yielding the plain stream of r
	Decompress(r io.Reader) (io.ReadCloser, error)

	// Extension is appended to object keys, e.g. ".zst"
	Extension() string
}

// NewCompressor creates a compressor. Level ranges 1 (fastest) to 9
// (smallest); 0 selects the algorithm default.
func NewCompressor(algorithm string, level int) (Compressor, error) {
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("compression level must be between 0 and 9, got %d", level)
	}
	switch strings.ToLower(algorithm) {
	case CompressionNone, "":
		return noCompression{}, nil
	case CompressionGzip:
		return gzipCompression{level: level}, nil
	case CompressionLZ4:
		return lz4Compression{level: level}, nil
	case CompressionZstd:
		return zstdCompression{level: level}, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// compressorForExtension finds the compressor that produced ext.
func compressorForExtension(ext string) (Compressor, bool) {
	for _, c := range []Compressor{gzipCompression{}, lz4Compression{}, zstdCompression{}} {
		if c.Extension() == ext {
			return c, true
		}
	}
	return nil, false
}

type noCompression struct{}

func (noCompression) Name() string      { return CompressionNone }
func (noCompression) Extension() string { return "" }

func (noCompression) Compress(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noCompression) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type gzipCompression struct {
	level int
}

func (gzipCompression) Name() string      { return CompressionGzip }
func (gzipCompression) Extension() string { return ".gz" }

func (c gzipCompression) Compress(w io.Writer) (io.WriteCloser, error) {
	level := gzip.DefaultCompression
	if c.level > 0 {
		level = c.level
	}
	return gzip.NewWriterLevel(w, level)
}

func (gzipCompression) Decompress(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

type lz4Compression struct {
	level int
}

func (lz4Compression) Name() string      { return CompressionLZ4 }
func (lz4Compression) Extension() string { return ".lz4" }

func (c lz4Compression) Compress(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if c.level == 0 {
		return zw, nil
	}
	level := lz4.Fast
	switch {
	case c.level >= 8:
		level = lz4.Level9
	case c.level >= 5:
		level = lz4.Level5
	case c.level >= 2:
		level = lz4.Level1
	}
	if err := zw.Apply(lz4.CompressionLevelOption(level)); err != nil {
		return nil, fmt.Errorf("failed to set lz4 level: %w", err)
	}
	return zw, nil
}

func (lz4Compression) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type zstdCompression struct {
	level int
}

func (zstdCompression) Name() string      { return CompressionZstd }
func (zstdCompression) Extension() string { return ".zst" }

func (c zstdCompression) Compress(w io.Writer) (io.WriteCloser, error) {
	level := zstd.SpeedDefault
	switch {
	case c.level == 0:
	case c.level <= 2:
		level = zstd.SpeedFastest
	case c.level <= 5:
		level = zstd.SpeedDefault
	case c.level <= 7:
		level = zstd.SpeedBetterCompression
	default:
		level = zstd.SpeedBestCompression
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(level))
}

func (zstdCompression) Decompress(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
