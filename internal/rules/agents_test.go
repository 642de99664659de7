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

package rules

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

func TestRegisterAgent_AddsBelowCap(t *testing.T) {
	env, _ := newTestEnv(t, 3)
	seedTestAgents(t, env, 2)

	require.NoError(t, RegisterAgent{}.Run(context.Background(), env))
	assert.Len(t, env.Mirror.Agents(), 3)
}

func TestRegisterAgent_CapCountsAsSkip(t *testing.T) {
	env, _ := newTestEnv(t, 3)
	seedTestAgents(t, env, maxAgents)

	counter := metrics.RuleSkippedTotal.WithLabelValues(RegisterAgent{}.Name())
	before := testutil.ToFloat64(counter)

	require.NoError(t, RegisterAgent{}.Run(context.Background(), env))
	assert.Len(t, env.Mirror.Agents(), maxAgents)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
