// Copyright 2026 nerdsane
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package harness

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut/sutfake"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/config"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/log"
)

// Store is the backing state provisioned for the service under test, isolated
// per run and torn down afterwards.
type Store interface {
	// BaseURL overrides the configured service address, or returns "" to
	// keep it.
	BaseURL() string
	Close(ctx context.Context) error
}

// ProvisionStore builds the store named by the config: an in-process fake
// service for "memory", a throwaway postgres schema for "postgres".
func ProvisionStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (Store, error) {
	switch cfg.Store.Type {
	case "memory":
		fake := sutfake.New()
		srv := httptest.NewServer(fake)
		logger.Info("provisioned in-memory service", "url", srv.URL)
		return &memoryStore{srv: srv, fake: fake}, nil
	case "postgres":
		return provisionPostgres(ctx, cfg.Store.DSN, logger)
	default:
		return nil, errors.Wrapf(errors.ErrMisconfigured, "unknown store type %q", cfg.Store.Type)
	}
}

// memoryStore serves the in-memory fake over a loopback listener.
type memoryStore struct {
	srv  *httptest.Server
	fake *sutfake.Server
}

func (m *memoryStore) BaseURL() string { return m.srv.URL }

func (m *memoryStore) Close(context.Context) error {
	m.srv.Close()
	return nil
}

// Fake exposes the underlying fake for tests.
func (m *memoryStore) Fake() *sutfake.Server { return m.fake }

// pgStore owns one throwaway schema in a shared postgres instance, so
// concurrent runs never see each other's rows.
type pgStore struct {
	conn   *pgx.Conn
	schema string
	logger *log.Logger
}

func provisionPostgres(ctx context.Context, dsn string, logger *log.Logger) (*pgStore, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMisconfigured, "connect postgres: %v", err)
	}
	schema := "dst_" + strings.ReplaceAll(uuid.New().String(), "-", "_")
	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		_ = conn.Close(ctx)
		return nil, errors.Wrapf(errors.ErrMisconfigured, "create schema %s: %v", schema, err)
	}
	logger.Info("provisioned postgres schema", "schema", schema)
	return &pgStore{conn: conn, schema: schema, logger: logger}, nil
}

func (p *pgStore) BaseURL() string { return "" }

func (p *pgStore) Close(ctx context.Context) error {
	_, err := p.conn.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", p.schema))
	if err != nil {
		p.logger.Warn("drop schema failed", "schema", p.schema, "error", err)
	}
	if cerr := p.conn.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
