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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/fbdialect/internal/adapter/types"
)

// Snapshot encodings
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

// Codec encodes schema snapshots.
type Codec interface {
	Name() string
	Extension() string
	Encode(w io.Writer, snap *types.SchemaSnapshot) error
	Decode(r io.Reader) (*types.SchemaSnapshot, error)
}

// NewCodec returns the codec for a format name.
func NewCodec(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return jsonCodec{}, nil
	case FormatYAML, "yml":
		return yamlCodec{}, nil
	case FormatMsgpack, "mp":
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}
}

func codecForExtension(ext string) (Codec, bool) {
	for _, c := range []Codec{jsonCodec{}, yamlCodec{}, msgpackCodec{}} {
		if c.Extension() == ext {
			return c, true
		}
	}
	return nil, false
}

type jsonCodec struct{}

func (jsonCodec) Name() string      { return FormatJSON }
func (jsonCodec) Extension() string { return ".json" }

func (jsonCodec) Encode(w io.Writer, snap *types.SchemaSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func (jsonCodec) Decode(r io.Reader) (*types.SchemaSnapshot, error) {
	var snap types.SchemaSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
	}
	return &snap, nil
}

type yamlCodec struct{}

func (yamlCodec) Name() string      { return FormatYAML }
func (yamlCodec) Extension() string { return ".yaml" }

func (yamlCodec) Encode(w io.Writer, snap *types.SchemaSnapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader) (*types.SchemaSnapshot, error) {
	var snap types.SchemaSnapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
	}
	return &snap, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string      { return FormatMsgpack }
func (msgpackCodec) Extension() string { return ".msgpack" }

func (msgpackCodec) Encode(w io.Writer, snap *types.SchemaSnapshot) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetOmitEmpty(true)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (msgpackCodec) Decode(r io.Reader) (*types.SchemaSnapshot, error) {
	var snap types.SchemaSnapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack snapshot: %w", err)
	}
	return &snap, nil
}
