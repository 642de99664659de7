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
	"fmt"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
)

// SubmitFeedback files free-form feedback from an existing agent.
type SubmitFeedback struct{}

// Name implements Rule.
func (SubmitFeedback) Name() string { return "feedback.submit" }

// Run implements Rule.
func (r SubmitFeedback) Run(ctx context.Context, env *Env) error {
	agents := env.Mirror.Agents()
	if len(agents) == 0 {
		return skip(r.Name())
	}
	author := pick(agents, env.Step)
	body := fmt.Sprintf("feedback at step %d", env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/feedback",
		sut.CreateFeedbackRequest{AuthorID: author.ID, Body: body}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertFeedback(&mirror.Feedback{
		ID:       out.ID,
		AuthorID: author.ID,
		Body:     body,
	})
}
