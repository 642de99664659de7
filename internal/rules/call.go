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

	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
)

// post issues one POST for a rule. A transport failure aborts the run (the
// harness cannot observe anything); any non-2xx lands in the error log and
// reports ok=false so the rule returns without mutating the mirror.
func post(ctx context.Context, env *Env, rule, path string, body, out any) (ok bool, err error) {
	resp, err := env.SUT.Post(ctx, path, body)
	if err != nil {
		return false, errors.Wrapf(err, "POST %s", path)
	}
	if !resp.OK() {
		env.Unexpected(rule, "POST "+path, resp)
		return false, nil
	}
	if out != nil {
		if err := resp.Decode(out); err != nil {
			return false, errors.Wrapf(err, "decode POST %s response", path)
		}
	}
	return true, nil
}
