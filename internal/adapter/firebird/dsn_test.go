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
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fbdialect/internal/adapter/firebird/testutil"
	"github.com/fbdialect/internal/adapter/types"
)

var _ = Describe("BuildDSN", func() {
	It("should build a basic DSN", func() {
		dsn, err := BuildDSN(testutil.NewBasicConnectionConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(dsn).To(Equal("SYSDBA:testpassword123@localhost:3050//var/lib/firebird/data/test.fdb"))
	})

	It("should add Firebird options as query parameters", func() {
		dsn, err := BuildDSN(testutil.DefaultConnectionConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(dsn).To(Equal("SYSDBA:testpassword123@localhost:3050//var/lib/firebird/data/test.fdb" +
			"?charset=UTF8&role=RDB%24ADMIN&wire_crypt=true"))
	})

	It("should default the port and escape credentials", func() {
		dsn, err := BuildDSN(types.ConnectionConfig{
			Host:     "db.example.com",
			Database: "employee",
			Username: "sysdba",
			Password: "p@ss:word",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(dsn).To(Equal("sysdba:p%40ss%3Aword@db.example.com:3050/employee"))
	})

	It("should pass extra params through without overriding explicit options", func() {
		cfg := testutil.NewBasicConnectionConfig()
		cfg.Charset = "UTF8"
		cfg.AuthPlugin = "Srp256"
		cfg.Params = map[string]string{"charset": "NONE", "column_name_to_lower": "true"}

		dsn, err := BuildDSN(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(dsn).To(HaveSuffix("?auth_plugin_name=Srp256&charset=UTF8&column_name_to_lower=true"))
	})

	It("should require a host and a database", func() {
		_, err := BuildDSN(types.ConnectionConfig{Database: "employee"})
		Expect(err).To(MatchError(ContainSubstring("host is required")))

		_, err = BuildDSN(types.ConnectionConfig{Host: "localhost"})
		Expect(err).To(MatchError(ContainSubstring("database is required")))
	})
})

var _ = DescribeTable("ConnectString",
	func(cfg types.ConnectionConfig, want string) {
		Expect(ConnectString(cfg)).To(Equal(want))
	},
	Entry("host and port", testutil.NewBasicConnectionConfig(), "localhost/3050:/var/lib/firebird/data/test.fdb"),
	Entry("host only", types.ConnectionConfig{Host: "localhost", Database: "employee"}, "localhost:employee"),
	Entry("local alias", types.ConnectionConfig{Database: "employee"}, "employee"),
)

var _ = Describe("ParseTxMode", func() {
	It("should default to READ COMMITTED in a transaction", func() {
		mode, err := ParseTxMode("", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(mode.Autocommit).To(BeFalse())
		Expect(mode.Options.Isolation).To(Equal(sql.LevelReadCommitted))
	})

	DescribeTable("known levels",
		func(name string, autocommit bool, level sql.IsolationLevel) {
			mode, err := ParseTxMode(name, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode.Autocommit).To(Equal(autocommit))
			Expect(mode.Options.Isolation).To(Equal(level))
			Expect(mode.Options.ReadOnly).To(BeTrue())
		},
		Entry("autocommit", "AUTOCOMMIT", true, sql.LevelDefault),
		Entry("read committed", "READ COMMITTED", false, sql.LevelReadCommitted),
		Entry("underscored and lower case", "repeatable_read", false, sql.LevelRepeatableRead),
		Entry("serializable", "Serializable", false, sql.LevelSerializable),
	)

	It("should list the valid levels for an unknown name", func() {
		_, err := ParseTxMode("READ UNCOMMITTED", false)
		Expect(err).To(HaveOccurred())
		for _, v := range IsolationLevelValues() {
			Expect(err.Error()).To(ContainSubstring(v))
		}
	})
})
