package shell

import (
	"context"
	"errors"

	"github.com/gopatchy/artnode/logic"
)

// ErrApplyStateExpectsMap is returned when ApplyState is given a non-nil,
// non-map value: nil is coerced to an empty map, anything else must already
// be a map[string]any.
var ErrApplyStateExpectsMap = errors.New("shell: apply-state expects a map")

// CommandBus is the external-facing handle onto the event stream: callers
// inject apply-state, snapshot, and shutdown commands without touching the
// channel directly. Sends block on ctx rather than drop, since commands
// (unlike rx-packets) are never safe to silently discard.
type CommandBus struct {
	events chan<- logic.Event
	diag   *Diagnostics
}

// NewCommandBus wraps events for external command injection. diag may be
// nil; Snapshot(ctx, "diagnostics") then falls through to the logic step's
// default projection instead of returning counters.
func NewCommandBus(events chan<- logic.Event, diag *Diagnostics) *CommandBus {
	return &CommandBus{events: events, diag: diag}
}

// ApplyStateCommand wraps patch into an apply-state command. A nil patch is
// treated as {}. The logic step does not merge the patch into its state: it
// returns the state unchanged and emits the patch as a MutateState action.
func ApplyStateCommand(patch any) (logic.Command, error) {
	if patch == nil {
		patch = map[string]any{}
	}
	m, ok := patch.(map[string]any)
	if !ok {
		return logic.Command{}, ErrApplyStateExpectsMap
	}
	return logic.Command{Kind: logic.CommandApplyState, Args: m}, nil
}

// ApplyState sends an apply-state command and waits for it to be enqueued.
func (b *CommandBus) ApplyState(ctx context.Context, patch any) error {
	cmd, err := ApplyStateCommand(patch)
	if err != nil {
		return err
	}
	return b.send(ctx, cmd)
}

// Snapshot requests a named projection of node state and waits for the
// reply (or ctx to expire). "diagnostics" is handled locally: counters live
// in the shell package, not node state, so it never touches the event
// stream and always returns immediately.
func (b *CommandBus) Snapshot(ctx context.Context, path string) (any, error) {
	if path == "diagnostics" && b.diag != nil {
		return b.diag.Snapshot(), nil
	}

	reply := make(chan any, 1)
	cmd := logic.Command{Kind: logic.CommandSnapshot, Args: map[string]any{"path": path}, Reply: reply}
	if err := b.send(ctx, cmd); err != nil {
		return nil, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown requests an orderly stop: the logic task will see Running turn
// false and the Lifecycle will tear down the receiver/sender/event/action
// channels in order.
func (b *CommandBus) Shutdown(ctx context.Context) error {
	return b.send(ctx, logic.Command{Kind: logic.CommandShutdown})
}

func (b *CommandBus) send(ctx context.Context, cmd logic.Command) error {
	select {
	case b.events <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
