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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbdialect/internal/adapter/firebird"
)

func TestNewAdapter(t *testing.T) {
	cfg := ConnectionConfig{Host: "localhost", Database: "employee"}

	for _, engine := range []string{"firebird", "Firebird", "interbase", ""} {
		t.Run("engine "+engine, func(t *testing.T) {
			a, err := NewAdapter(engine, cfg)
			require.NoError(t, err)
			fb, ok := a.(*firebird.Adapter)
			require.True(t, ok)
			assert.Equal(t, "employee", fb.Config().Database)
		})
	}

	t.Run("unsupported engine", func(t *testing.T) {
		_, err := NewAdapter("postgres", cfg)
		assert.EqualError(t, err, "unsupported engine type: postgres")
	})
}
