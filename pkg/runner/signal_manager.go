package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// interruptGrace is how long an input error waits for the interrupt it may
// have come with. Ctrl+C in some terminals closes stdin just before SIGINT.
const interruptGrace = 100 * time.Millisecond

// SignalManager scopes a Run to interrupts. The first SIGINT or SIGTERM ends
// the input loop; once rearmed for the drain, a second one abandons the
// replies still pending.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	stop   context.CancelFunc
}

// NewSignalManager listens for the first interrupt under parent.
func NewSignalManager(parent context.Context) *SignalManager {
	sm := &SignalManager{parent: parent}
	sm.Rearm()
	return sm
}

// Context is cancelled by the next interrupt or by the parent.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Rearm discards the current context and waits for a fresh interrupt.
func (sm *SignalManager) Rearm() {
	sm.Stop()
	sm.ctx, sm.stop = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

// Stop releases the signal handler and cancels Context.
func (sm *SignalManager) Stop() {
	if sm.stop != nil {
		sm.stop()
	}
}

// Interrupted reports whether Context is done, allowing interruptGrace for
// an interrupt that races the input error being handled.
func (sm *SignalManager) Interrupted() bool {
	select {
	case <-sm.ctx.Done():
		return true
	case <-time.After(interruptGrace):
		return false
	}
}
