package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/consilium/internal/specialist"
	"golang.org/x/sync/errgroup"
)

// FanOut dispatches one question to every configured specialist in
// parallel and collects exactly one outcome per specialist. Timeouts and
// failures are absorbed into outcomes; only cancellation of the
// consultation itself makes the dispatch fail.
type FanOut struct {
	client     specialist.Client
	onProgress func(ProgressEvent)
}

// NewFanOut creates a FanOut that calls specialists via client.
// onProgress is called synchronously from each goroutine; it may be nil.
func NewFanOut(client specialist.Client, onProgress func(ProgressEvent)) *FanOut {
	return &FanOut{
		client:     client,
		onProgress: onProgress,
	}
}

// Dispatch issues one Ask per roster entry, all at the same logical start
// time, and waits until every call has resolved. There is no early return
// on first success; the join is bounded by the slowest per-call deadline.
//
// The returned slice has exactly one entry per roster entry, in roster
// order, regardless of completion order on the wire. If ctx is canceled
// before all outcomes resolve, in-flight calls are abandoned and Dispatch
// returns the cancellation instead of a partial outcome set.
func (f *FanOut) Dispatch(ctx context.Context, roster []specialist.Identity, req Request) ([]AgentOutcome, error) {
	outcomes := make([]AgentOutcome, len(roster))
	g, gctx := errgroup.WithContext(ctx)

	for i, sp := range roster {
		f.emit(ProgressEvent{
			ConsultationID: req.ID,
			Agent:          sp.Name,
			Status:         ProgressPending,
		})

		g.Go(func() error {
			f.emit(ProgressEvent{
				ConsultationID: req.ID,
				Agent:          sp.Name,
				Status:         ProgressWorking,
			})

			out := f.client.Ask(gctx, sp, specialist.AskRequest{
				Question: req.Question,
				Locale:   req.Locale,
			})

			// Ask absorbs its own deadline and transport failures into the
			// outcome. A canceled gctx means the consultation as a whole
			// was aborted, which discards the outcome and fails the
			// dispatch.
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("orchestrator: consultation %s canceled: %w", req.ID, err)
			}

			outcomes[i] = AgentOutcome{Agent: sp, Outcome: out}

			status, msg := progressFor(out)
			f.emit(ProgressEvent{
				ConsultationID: req.ID,
				Agent:          sp.Name,
				Status:         status,
				Message:        msg,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// emit sends a progress event if a callback is registered.
func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress != nil {
		if ev.At.IsZero() {
			ev.At = time.Now()
		}
		f.onProgress(ev)
	}
}

// progressFor maps a resolved outcome to its progress status and message.
func progressFor(out specialist.Outcome) (ProgressStatus, string) {
	switch out.Kind {
	case specialist.OutcomeAnswered:
		return ProgressAnswered, fmt.Sprintf("answered in %s", out.Latency.Round(time.Millisecond))
	case specialist.OutcomeTimedOut:
		return ProgressTimedOut, fmt.Sprintf("no answer within %s", out.Latency.Round(time.Millisecond))
	default:
		msg := string(out.Cause)
		if out.Err != nil {
			msg = out.Err.Error()
		}
		return ProgressFailed, msg
	}
}
