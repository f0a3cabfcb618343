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

package adapter

import (
	"fmt"
	"strings"

	"github.com/fbdialect/internal/adapter/firebird"
)

// Engine names accepted by NewAdapter.
const (
	EngineFirebird = "firebird"
	// EngineInterbase shares the Firebird wire protocol and catalog.
	EngineInterbase = "interbase"
)

// NewAdapter creates a new database adapter based on the engine name
func NewAdapter(engine string, config ConnectionConfig) (DatabaseAdapter, error) {
	switch strings.ToLower(engine) {
	case EngineFirebird, EngineInterbase, "":
		return firebird.NewAdapter(config), nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", engine)
	}
}
