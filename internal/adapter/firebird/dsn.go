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

package firebird

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/fbdialect/internal/adapter/types"
)

// DefaultPort is the standard Firebird listener port.
const DefaultPort = 3050

// BuildDSN builds a firebirdsql data source name:
//
//	user:password@host:port/database?role=...&charset=...
func BuildDSN(cfg types.ConnectionConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("host is required")
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("database is required")
	}
	port := int(cfg.Port)
	if port == 0 {
		port = DefaultPort
	}

	u := url.URL{
		Host: cfg.Host + ":" + strconv.Itoa(port),
		Path: "/" + cfg.Database,
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	q := url.Values{}
	if cfg.Role != "" {
		q.Set("role", cfg.Role)
	}
	if cfg.Charset != "" {
		q.Set("charset", cfg.Charset)
	}
	if cfg.WireCrypt != nil {
		q.Set("wire_crypt", strconv.FormatBool(*cfg.WireCrypt))
	}
	if cfg.AuthPlugin != "" {
		q.Set("auth_plugin_name", cfg.AuthPlugin)
	}
	if cfg.Timezone != "" {
		q.Set("timezone", cfg.Timezone)
	}
	keys := make([]string, 0, len(cfg.Params))
	for k := range cfg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if q.Has(k) {
			continue
		}
		q.Set(k, cfg.Params[k])
	}
	u.RawQuery = q.Encode()

	// The driver prepends its own scheme.
	return strings.TrimPrefix(u.String(), "//"), nil
}

// ConnectString returns the classic host/port:database form used by
// native Firebird tools. The port is omitted when unset.
func ConnectString(cfg types.ConnectionConfig) string {
	host := cfg.Host
	if cfg.Port != 0 {
		host = fmt.Sprintf("%s/%d", host, cfg.Port)
	}
	if host == "" {
		return cfg.Database
	}
	return host + ":" + cfg.Database
}
