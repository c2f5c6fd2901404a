package control

import (
	"sync"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog"
)

const (
	heartbeatInterval = 2 * time.Second
	maxMissedAcks     = 3
)

// ReplaySource supplies the full engine state for reconnect replay: every
// grid base value, the route table, and the per-slot descriptor/modulator
// assignments. The engine implements this; control only consumes it.
type ReplaySource interface {
	ReplayState() []Message
}

// Heartbeat emits an outbound ping every heartbeatInterval and tracks
// acks from the peer. Three consecutive missed acks publish a
// DisconnectedPeer status; engine state is retained regardless, and a
// subsequent ack triggers a full-state replay through the Queue.
type Heartbeat struct {
	client *osc.Client
	log    zerolog.Logger

	mu          sync.Mutex
	missedAcks  int
	connected   bool
	lastAckTime time.Time

	replay ReplaySource
	queue  *Queue

	stop chan struct{}
}

// NewHeartbeat creates a heartbeat tracker. SetReplaySource must be
// called before Start for reconnect replay to function.
func NewHeartbeat(client *osc.Client, log zerolog.Logger) *Heartbeat {
	return &Heartbeat{
		client:    client,
		log:       log.With().Str("component", "control.heartbeat").Logger(),
		connected: true,
		stop:      make(chan struct{}),
	}
}

// SetReplaySource wires the engine state replayed on reconnect.
func (h *Heartbeat) SetReplaySource(replay ReplaySource, queue *Queue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replay = replay
	h.queue = queue
}

// Start runs the periodic ping loop until Stop is called. Blocks the
// calling goroutine — run it on its own control-thread goroutine.
func (h *Heartbeat) Start() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.tick()
		case <-h.stop:
			return
		}
	}
}

func (h *Heartbeat) Stop() {
	close(h.stop)
}

func (h *Heartbeat) tick() {
	h.mu.Lock()
	h.missedAcks++
	wasConnected := h.connected
	if h.missedAcks >= maxMissedAcks {
		h.connected = false
	}
	disconnectedNow := wasConnected && !h.connected
	missed := h.missedAcks
	h.mu.Unlock()

	if disconnectedNow {
		h.log.Warn().Err(&DisconnectedPeer{MissedAcks: missed}).Msg("control peer disconnected")
	}
	h.client.Send(osc.NewMessage("/engine/ping"))
}

// ReceivePing is called when the peer's own /engine/ping arrives — in
// this protocol either side may initiate, so receiving a ping resets
// the miss counter exactly like receiving a pong does.
func (h *Heartbeat) ReceivePing() {
	h.ack()
}

// ReceivePong handles the peer's response to our ping.
func (h *Heartbeat) ReceivePong() {
	h.ack()
}

func (h *Heartbeat) ack() {
	h.mu.Lock()
	wasDisconnected := !h.connected
	h.missedAcks = 0
	h.connected = true
	h.lastAckTime = time.Now()
	replay, queue := h.replay, h.queue
	h.mu.Unlock()

	if wasDisconnected {
		h.log.Info().Msg("control peer reconnected, replaying state")
		if replay != nil && queue != nil {
			for _, msg := range replay.ReplayState() {
				queue.Push(msg)
			}
		}
	}
}

// Connected reports the current peer connectivity status.
func (h *Heartbeat) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}
