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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dst.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
run:
  seed: 42
fault:
  enabled: true
  probability: 0.3
`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Run.Seed)
	assert.Equal(t, DefaultStepBudget, cfg.Run.StepBudget)
	assert.Equal(t, DefaultAgentCount, cfg.Run.AgentCount)
	assert.Equal(t, "memory", cfg.Store.Type)

	min, max := cfg.DelayBounds()
	assert.Equal(t, time.Millisecond, min)
	assert.Greater(t, max, min)
}

func TestLoadConfig_RejectsBadProbability(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
fault:
  probability: 1.5
`))
	assert.Error(t, err)
}

func TestLoadConfig_PostgresNeedsDSNAndBaseURL(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
store:
  type: postgres
`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `
store:
  type: postgres
  dsn: postgres://localhost/dst
sut:
  base_url: http://localhost:8080
`))
	assert.NoError(t, err)
}

func TestLoadConfig_UnknownStoreType(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
store:
  type: etcd
`))
	assert.Error(t, err)
}
