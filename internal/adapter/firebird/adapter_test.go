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
	"context"
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fbdialect/internal/adapter/firebird/testutil"
	"github.com/fbdialect/internal/adapter/types"
)

var _ = Describe("Adapter", func() {
	var (
		ctx     context.Context
		adapter *Adapter
		mock    sqlmock.Sqlmock
		db      *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, mock, err = testutil.NewMockDB()
		Expect(err).NotTo(HaveOccurred())
		adapter = NewAdapter(testutil.DefaultConnectionConfig())
	})

	AfterEach(func() {
		if db != nil {
			_ = db.Close()
		}
	})

	Describe("NewAdapter", func() {
		It("should assume Firebird 4.0 before connecting", func() {
			Expect(adapter.Dialect().MaxIdentifierLength()).To(Equal(63))
			Expect(adapter.Dialect().Version().IsZero()).To(BeTrue())
		})

		It("should keep the connection config", func() {
			Expect(adapter.Config().Database).To(Equal(testutil.TestDatabase))
		})
	})

	Describe("Ping", func() {
		Context("when not connected", func() {
			It("should return error", func() {
				err := adapter.Ping(ctx)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not connected"))
			})
		})

		Context("when connected", func() {
			It("should ping the server", func() {
				adapter.db = db
				testutil.ExpectPing(mock)

				Expect(adapter.Ping(ctx)).To(Succeed())
				Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
			})
		})
	})

	Describe("GetVersion", func() {
		It("should return the raw engine version", func() {
			adapter.db = db
			testutil.ExpectEngineVersion(mock, "4.0.2")

			version, err := adapter.GetVersion(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal("4.0.2"))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should wrap query errors", func() {
			adapter.db = db
			testutil.ExpectQueryError(mock, `ENGINE_VERSION`, fmt.Errorf("connection reset"))

			_, err := adapter.GetVersion(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to get version"))
		})

		It("should fail when not connected", func() {
			_, err := adapter.GetVersion(ctx)
			Expect(err).To(MatchError(ContainSubstring("not connected")))
		})
	})

	Describe("ServerVersion", func() {
		It("should parse, cache and re-tune the dialect", func() {
			adapter.db = db
			testutil.ExpectEngineVersion(mock, "3.0.10")

			v, err := adapter.ServerVersion(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Major).To(Equal(3))
			Expect(v.Minor).To(Equal(0))
			Expect(v.Build).To(Equal(10))
			Expect(adapter.Dialect().MaxIdentifierLength()).To(Equal(31))

			// cached: no further query is expected
			again, err := adapter.ServerVersion(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(v))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should reject an unparsable version", func() {
			adapter.db = db
			testutil.ExpectEngineVersion(mock, "garbage")

			_, err := adapter.ServerVersion(ctx)
			Expect(err).To(MatchError(ContainSubstring("failed to parse version")))
			Expect(adapter.Dialect().Version().IsZero()).To(BeTrue())
		})

		It("should fail when not connected", func() {
			_, err := adapter.ServerVersion(ctx)
			Expect(err).To(MatchError(ContainSubstring("not connected")))
		})

		It("should honour a pinned version without querying", func() {
			adapter.db = db
			adapter.SetServerVersion(types.ServerVersion{Major: 2, Minor: 5, Vendor: types.VendorFirebird})

			v, err := adapter.ServerVersion(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Minor).To(Equal(5))
			Expect(adapter.Dialect().IsReserved("boolean")).To(BeFalse())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("Close", func() {
		It("should close once and be idempotent", func() {
			adapter.db = db
			mock.ExpectClose()

			Expect(adapter.Close()).To(Succeed())
			Expect(adapter.Close()).To(Succeed())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
			db = nil
		})
	})
})
