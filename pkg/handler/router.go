// Copyright 2025 Tom Barlow
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

package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tombee/cfnresource/internal/log"
	"github.com/tombee/cfnresource/pkg/cfnevent"
	"github.com/tombee/cfnresource/pkg/errors"
	"github.com/tombee/cfnresource/pkg/secrets"
)

// unknownStackStatus is the degraded value for both status fields when the
// stack status lookup fails or is not configured.
const unknownStackStatus = "UNKNOWN"

// Disposition classifies how an execution ended.
type Disposition string

const (
	// Completed means a terminal outcome was produced and reported; the
	// session is over.
	Completed Disposition = "completed"

	// Continued means a checkpoint was captured and a fresh execution was
	// scheduled; nothing was reported. Reporting happens in a later
	// execution of the chain.
	Continued Disposition = "continued"
)

// Outcome is the result of routing one execution.
type Outcome struct {
	// Disposition says whether the session completed or continued.
	Disposition Disposition

	// Response is the delivered terminal document. Set only on completion.
	Response *cfnevent.Response

	// Next is the envelope handed to the continuation execution. Set only
	// on continuation.
	Next *cfnevent.Event
}

// Router classifies incoming invocations by lifecycle phase and dispatches
// them to registered handlers, wrapping every call with session deadline
// enforcement, checkpoint handling, and exactly-once terminal reporting.
type Router struct {
	registry       *Registry
	reporter       Reporter
	invoker        Invoker
	status         StatusLookup
	resolver       secrets.Resolver
	masker         *secrets.Masker
	baseData       map[string]interface{}
	defaultTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// New creates a Router from the given configuration.
func New(cfg Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolver := cfg.SecretResolver
	if cfg.DisableSecretResolution {
		resolver = nil
	}

	defaultTimeout := cfg.DefaultTimeout
	if defaultTimeout == 0 {
		defaultTimeout = cfnevent.DefaultTimeout * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Router{
		registry:       cfg.Registry,
		reporter:       cfg.Reporter,
		invoker:        cfg.Invoker,
		status:         cfg.StatusLookup,
		resolver:       resolver,
		masker:         secrets.NewMasker(cfg.SecureAttributes...),
		baseData:       cfg.BaseData,
		defaultTimeout: defaultTimeout,
		logger:         logger,
		now:            now,
	}, nil
}

// Route processes one execution of a provisioning session.
//
// Enrichment (stack status, secret resolution) runs before deadline and
// dispatch so handlers always see a fully resolved envelope. The session
// deadline is checked both before entering the handler and again right
// after a checkpoint, because a handler may legitimately run up to the last
// available instant and the continue-or-fail decision must use the freshest
// clock reading.
//
// The returned error reports a callback delivery failure only; the outcome
// itself is always determined. Delivery failure means the orchestrator may
// never learn the session outcome, so it must reach the operator's logs.
func (r *Router) Route(ctx context.Context, ev *cfnevent.Event, remaining RemainingTime) (*Outcome, error) {
	phase := ev.Phase()

	// First sight of a session: stamp the clock origin and budget. Both
	// ride in the envelope from here on and are never advanced by
	// continuations.
	if ev.CreationTime == 0 {
		ev.CreationTime = r.now().Unix()
	}
	if ev.Timeout <= 0 {
		ev.Timeout = cfnevent.Seconds(r.defaultTimeout / time.Second)
	}
	session := NewSession(ev)

	logger := r.logger.With(
		slog.String(log.ExecutionIDKey, uuid.NewString()),
		slog.String(log.PhaseKey, phase),
		slog.String(log.RequestIDKey, ev.RequestID),
		slog.String(log.ResourceKey, ev.LogicalResourceID),
	)

	if phase == string(cfnevent.RequestUpdate) || phase == string(cfnevent.RequestDelete) {
		r.enrichStackStatus(ctx, ev, logger)
	}

	if r.resolver != nil {
		if err := secrets.ResolveProperties(ctx, r.resolver, ev.ResourceProperties, r.masker); err != nil {
			logger.Error("secret resolution failed", log.Error(err))
			return r.complete(ctx, ev, failure(ev, err), logger)
		}
	}

	if now := r.now(); session.Expired(now) {
		logger.Info("session timeout reached before dispatch",
			slog.Int64("elapsed_s", int64(session.Elapsed(now).Seconds())),
			slog.Int64("timeout_s", int64(session.Budget.Seconds())))
		return r.complete(ctx, ev, failure(ev, timeoutError(session, now)), logger)
	}

	fn, ok := r.registry.Lookup(phase)
	if !ok {
		err := &errors.UnregisteredPhaseError{Phase: phase}
		logger.Error("no handler registered", log.Error(err))
		return r.complete(ctx, ev, failure(ev, err), logger)
	}

	result, err := fn(ctx, ev, remaining)
	if err != nil {
		var checkpoint *CheckpointError
		if stderrors.As(err, &checkpoint) {
			return r.continueSession(ctx, ev, session, checkpoint, logger)
		}
		logger.Error("handler failed", log.Error(err))
		return r.complete(ctx, ev, failure(ev, err), logger)
	}

	return r.complete(ctx, ev, r.success(ev, result), logger)
}

// enrichStackStatus populates StackStatus/StackStatusReason on the
// envelope, degrading to UNKNOWN on any lookup failure. Never fatal.
func (r *Router) enrichStackStatus(ctx context.Context, ev *cfnevent.Event, logger *slog.Logger) {
	ev.StackStatus = unknownStackStatus
	ev.StackStatusReason = unknownStackStatus

	if r.status == nil {
		return
	}

	status, reason, err := r.status.StackStatus(ctx, ev.StackID)
	if err != nil {
		logger.Info("stack status lookup failed, have you granted DescribeStacks permissions?",
			log.Error(err))
		return
	}
	if status != "" {
		ev.StackStatus = status
	}
	if reason != "" {
		ev.StackStatusReason = reason
	}
}

// continueSession captures the checkpoint state into a copy of the envelope
// and schedules the next execution of the chain. No terminal outcome is
// reported on this path unless the session budget is exhausted or the
// continuation cannot be submitted.
func (r *Router) continueSession(ctx context.Context, ev *cfnevent.Event, session Session, checkpoint *CheckpointError, logger *slog.Logger) (*Outcome, error) {
	// Freshest clock reading: the handler may have run right up to the
	// session budget. An expired session must fail here rather than
	// re-invoke, or the chain would never terminate.
	if now := r.now(); session.Expired(now) {
		logger.Info("session timeout reached at checkpoint")
		return r.complete(ctx, ev, failure(ev, timeoutError(session, now)), logger)
	}

	state, err := json.Marshal(checkpoint.State)
	if err != nil {
		logger.Error("checkpoint state not serializable", log.Error(err))
		return r.complete(ctx, ev, failure(ev, errors.Wrap(err, "serializing checkpoint state")), logger)
	}

	next := ev.Clone()
	next.EventStatus = cfnevent.StatusPoll
	next.EventState = state

	logger.Info("execution checkpoint captured, invoking continuation")
	if err := r.invoke(ctx, next); err != nil {
		logger.Error("continuation invocation failed", log.Error(err))
		return r.complete(ctx, ev, failure(ev, &errors.ContinuationError{Cause: err}), logger)
	}

	return &Outcome{Disposition: Continued, Next: next}, nil
}

func (r *Router) invoke(ctx context.Context, ev *cfnevent.Event) error {
	if r.invoker == nil {
		return errors.New("no continuation invoker configured")
	}
	return r.invoker.Invoke(ctx, ev)
}

// success builds the terminal document for a normally returned result.
func (r *Router) success(ev *cfnevent.Event, result *Result) *cfnevent.Response {
	resp := cfnevent.NewResponse(ev)

	if len(r.baseData) > 0 {
		resp.Data = make(map[string]interface{}, len(r.baseData))
		for k, v := range r.baseData {
			resp.Data[k] = v
		}
	}

	if result == nil {
		return resp
	}
	if result.Status != "" {
		resp.Status = result.Status
	}
	if result.Reason != "" {
		resp.Reason = result.Reason
	}
	if result.PhysicalResourceID != "" {
		resp.PhysicalResourceID = result.PhysicalResourceID
	}
	resp.NoEcho = result.NoEcho
	if len(result.Data) > 0 {
		if resp.Data == nil {
			resp.Data = make(map[string]interface{}, len(result.Data))
		}
		for k, v := range result.Data {
			resp.Data[k] = v
		}
	}
	return resp
}

// complete delivers the terminal outcome. This is the single reporting
// point for the whole session: exactly one execution of the chain reaches
// it, exactly once.
func (r *Router) complete(ctx context.Context, ev *cfnevent.Event, resp *cfnevent.Response, logger *slog.Logger) (*Outcome, error) {
	outcome := &Outcome{Disposition: Completed, Response: resp}

	if err := r.reporter.Report(ctx, ev.ResponseURL, resp); err != nil {
		// The orchestrator may never learn this session's outcome. Not
		// retried further; surfaced for the operator.
		logger.Error("terminal outcome delivery failed", log.Error(err),
			slog.String("status", string(resp.Status)))
		return outcome, err
	}

	logger.Info("terminal outcome delivered",
		slog.String("status", string(resp.Status)),
		slog.String("physical_resource_id", resp.PhysicalResourceID),
		slog.Any("data", r.masker.MaskMap(resp.Data)))
	return outcome, nil
}

// failure builds the terminal document for a failed session.
func failure(ev *cfnevent.Event, err error) *cfnevent.Response {
	resp := cfnevent.NewResponse(ev)
	resp.Status = cfnevent.StatusFailed
	resp.Reason = err.Error()
	return resp
}

func timeoutError(session Session, now time.Time) error {
	return &errors.SessionTimeoutError{
		Timeout: session.Budget,
		Elapsed: session.Elapsed(now),
	}
}
