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

package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	VendorFirebird  = "firebird"
	VendorInterbase = "interbase"
)

// ServerVersion identifies the server product and release.
// The zero value behaves like Firebird 4.0, the assumption used before
// a connection has been made.
type ServerVersion struct {
	Major  int    `json:"major" yaml:"major" msgpack:"major"`
	Minor  int    `json:"minor" yaml:"minor" msgpack:"minor"`
	Build  int    `json:"build" yaml:"build" msgpack:"build"`
	Vendor string `json:"vendor" yaml:"vendor" msgpack:"vendor"`
}

// DefaultServerVersion is assumed until the server reports its own.
var DefaultServerVersion = ServerVersion{Major: 4, Minor: 0, Vendor: VendorFirebird}

// versionPattern matches strings such as "WI-V6.3.2.18118 Firebird 2.1".
var versionPattern = regexp.MustCompile(`\w+-V(\d+)\.(\d+)\.(\d+)\.(\d+)( \w+ (\d+)\.(\d+))?`)

// ParseServerVersion parses an isc_info_version style string.
// When the product suffix is present the product release and the build
// number are reported as Firebird, otherwise the triple is InterBase's.
func ParseServerVersion(s string) (ServerVersion, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return ServerVersion{}, fmt.Errorf("could not determine version from string %q", s)
	}
	n := func(i int) int {
		v, _ := strconv.Atoi(m[i])
		return v
	}
	if m[5] != "" {
		return ServerVersion{Major: n(6), Minor: n(7), Build: n(4), Vendor: VendorFirebird}, nil
	}
	return ServerVersion{Major: n(1), Minor: n(2), Build: n(3), Vendor: VendorInterbase}, nil
}

// FromEngineVersion parses the ENGINE_VERSION context value, e.g. "4.0.2"
// or "3.0". Only the first two components are significant.
func FromEngineVersion(s string) (ServerVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return ServerVersion{}, fmt.Errorf("invalid engine version %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return ServerVersion{}, fmt.Errorf("invalid engine version %q: %w", s, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return ServerVersion{}, fmt.Errorf("invalid engine version %q: %w", s, err)
	}
	v := ServerVersion{Major: major, Minor: minor, Vendor: VendorFirebird}
	if len(parts) > 2 {
		v.Build, _ = strconv.Atoi(parts[2])
	}
	return v, nil
}

func (v ServerVersion) resolved() ServerVersion {
	if v.Vendor == "" && v.Major == 0 && v.Minor == 0 {
		return DefaultServerVersion
	}
	return v
}

// IsZero reports whether no version has been recorded.
func (v ServerVersion) IsZero() bool {
	return v == ServerVersion{}
}

// AtLeast reports whether the (Firebird) release is at least major.minor.
// InterBase servers never satisfy a Firebird release gate.
func (v ServerVersion) AtLeast(major, minor int) bool {
	r := v.resolved()
	if r.Vendor == VendorInterbase {
		return false
	}
	if r.Major != major {
		return r.Major > major
	}
	return r.Minor >= minor
}

// VersionTwo reports whether the server speaks the Firebird 2 era dialect:
// Firebird 2.0 or later, or InterBase 6 or later.
func (v ServerVersion) VersionTwo() bool {
	r := v.resolved()
	if r.Vendor == VendorInterbase {
		return r.Major >= 6
	}
	return r.Major >= 2
}

// SupportsInsertReturning follows VersionTwo, so InterBase 6 and later
// accept INSERT ... RETURNING as well.
func (v ServerVersion) SupportsInsertReturning() bool { return v.VersionTwo() }

// SupportsDMLReturning gates UPDATE and DELETE ... RETURNING: Firebird 2.1
// or later, or any InterBase 6 era server.
func (v ServerVersion) SupportsDMLReturning() bool {
	if v.resolved().Vendor == VendorInterbase {
		return v.VersionTwo()
	}
	return v.AtLeast(2, 1)
}

func (v ServerVersion) SupportsBoolean() bool         { return v.AtLeast(3, 0) }
func (v ServerVersion) SupportsOffsetFetch() bool     { return v.AtLeast(3, 0) }
func (v ServerVersion) SupportsIdentity() bool        { return v.AtLeast(3, 0) }
func (v ServerVersion) SupportsIdentityAlways() bool  { return v.AtLeast(4, 0) }
func (v ServerVersion) SupportsSkipLocked() bool      { return v.AtLeast(5, 0) }
func (v ServerVersion) SupportsInt128() bool          { return v.AtLeast(4, 0) }
func (v ServerVersion) SupportsTimeZones() bool       { return v.AtLeast(4, 0) }
func (v ServerVersion) SupportsBinary() bool          { return v.AtLeast(4, 0) }
func (v ServerVersion) SupportsSequenceOptions() bool { return v.AtLeast(3, 0) }
func (v ServerVersion) SupportsPartialIndexes() bool  { return v.AtLeast(5, 0) }

// MaxIdentifierLength is 31 before Firebird 4.0 and 63 from 4.0 on.
func (v ServerVersion) MaxIdentifierLength() int {
	if v.AtLeast(4, 0) {
		return 63
	}
	return 31
}

// String renders the version as "firebird 4.0.2".
func (v ServerVersion) String() string {
	r := v.resolved()
	return fmt.Sprintf("%s %d.%d.%d", r.Vendor, r.Major, r.Minor, r.Build)
}
