package control

import (
	"testing"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeReplay struct{ msgs []Message }

func (f fakeReplay) ReplayState() []Message { return f.msgs }

func TestHeartbeatStartsConnected(t *testing.T) {
	h := NewHeartbeat(osc.NewClient("127.0.0.1", 9999), zerolog.Nop())
	assert.True(t, h.Connected())
}

func TestHeartbeatDisconnectsAfterThreeMissedAcks(t *testing.T) {
	h := NewHeartbeat(osc.NewClient("127.0.0.1", 9999), zerolog.Nop())
	h.tick()
	h.tick()
	assert.True(t, h.Connected())
	h.tick()
	assert.False(t, h.Connected())
}

func TestHeartbeatReconnectReplaysFullState(t *testing.T) {
	h := NewHeartbeat(osc.NewClient("127.0.0.1", 9999), zerolog.Nop())
	q := NewQueue(8, 8)
	replay := fakeReplay{msgs: []Message{
		{Kind: KindSetBase, IndexA: 1},
		{Kind: KindSlotDescriptor, Slot: 2, Text: "saw_basic"},
	}}
	h.SetReplaySource(replay, q)

	h.tick()
	h.tick()
	h.tick() // disconnected
	assert.False(t, h.Connected())

	h.ReceivePong()
	assert.True(t, h.Connected())

	var got []Kind
	q.Drain(func(m Message) { got = append(got, m.Kind) })
	assert.Equal(t, []Kind{KindSetBase, KindSlotDescriptor}, got)
}

func TestHeartbeatAckWithoutPriorDisconnectDoesNotReplay(t *testing.T) {
	h := NewHeartbeat(osc.NewClient("127.0.0.1", 9999), zerolog.Nop())
	q := NewQueue(8, 8)
	replay := fakeReplay{msgs: []Message{{Kind: KindSetBase, IndexA: 1}}}
	h.SetReplaySource(replay, q)

	h.ReceivePong()

	calls := 0
	q.Drain(func(Message) { calls++ })
	assert.Equal(t, 0, calls)
}
