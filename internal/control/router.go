// Package control implements the OSC-over-UDP control/event router: it
// decodes external messages into the closed Message variant, pushes
// them onto the lock-free Queue the audio thread drains each block,
// and runs the heartbeat/reconnect protocol.
package control

import (
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog"
)

// Router dispatches inbound OSC messages to the control Queue and
// sends outbound telemetry/heartbeat traffic back to the last known
// peer address.
type Router struct {
	queue *Queue
	log   zerolog.Logger

	client *osc.Client
	server *osc.Server

	heartbeat *Heartbeat
}

// NewRouter builds a router listening on listenAddr ("host:port") and
// sending outbound traffic to peerIP:peerPort.
func NewRouter(listenAddr, peerIP string, peerPort int, queue *Queue, log zerolog.Logger) *Router {
	r := &Router{
		queue:  queue,
		log:    log.With().Str("component", "control.router").Logger(),
		client: osc.NewClient(peerIP, peerPort),
	}
	r.heartbeat = NewHeartbeat(r.client, log)

	d := osc.NewStandardDispatcher()
	r.registerHandlers(d)
	r.server = &osc.Server{Addr: listenAddr, Dispatcher: d}
	return r
}

// ListenAndServe blocks serving OSC traffic. Run on its own goroutine
// by the caller — the control thread is allowed to block.
func (r *Router) ListenAndServe() error {
	return r.server.ListenAndServe()
}

// Heartbeat returns the router's heartbeat tracker so the caller can
// wire a ReplaySource and start its ping loop.
func (r *Router) Heartbeat() *Heartbeat { return r.heartbeat }

// Client returns the outbound OSC client, shared with the heartbeat,
// for a caller that needs to send its own telemetry traffic.
func (r *Router) Client() *osc.Client { return r.client }

func (r *Router) push(msg Message) {
	if err := r.queue.Push(msg); err != nil {
		r.log.Warn().Err(err).Msg("control queue backlog")
	}
}

// getFirstWildcard returns the first path segment of path following
// prefix, mirroring the pack's own address-wildcard extraction idiom.
func getFirstWildcard(prefix, path string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	return parts[0]
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func argF(m *osc.Message, i int) float32 {
	if i >= len(m.Arguments) {
		return 0
	}
	if v, ok := m.Arguments[i].(float32); ok {
		return v
	}
	return 0
}

func argI(m *osc.Message, i int) int {
	if i >= len(m.Arguments) {
		return 0
	}
	switch v := m.Arguments[i].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

func argS(m *osc.Message, i int) string {
	if i >= len(m.Arguments) {
		return ""
	}
	if v, ok := m.Arguments[i].(string); ok {
		return v
	}
	return ""
}

// slotParamIndex maps a generator's named standard param to its offset in
// the grid's 5-slot generator block (freq, cutoff, res, attack, decay).
func slotParamIndex(name string) int {
	switch name {
	case "freq":
		return 0
	case "cutoff":
		return 1
	case "res":
		return 2
	case "attack":
		return 3
	case "decay":
		return 4
	default:
		return 0
	}
}

// modParamIndex maps a modulator slot's named param to its offset in the
// grid's 7-slot modulator block. LFO reads rate as its rate,
// depth/gravity/resonance as shape/pattern/rotation selectors and
// excursion/calm/tension as the polarity of outputs B/C/D; SauceOfGrav
// reads all seven as continuous physics inputs — see package engine for
// the mapping.
func modParamIndex(name string) int {
	switch name {
	case "rate":
		return 0
	case "depth":
		return 1
	case "gravity":
		return 2
	case "resonance":
		return 3
	case "excursion":
		return 4
	case "calm":
		return 5
	case "tension":
		return 6
	default:
		return 0
	}
}

func (r *Router) registerHandlers(d *osc.StandardDispatcher) {
	d.AddMsgHandler("/engine/ping", func(m *osc.Message) {
		r.heartbeat.ReceivePing()
		r.client.Send(osc.NewMessage("/engine/pong"))
	})
	d.AddMsgHandler("/engine/bpm", func(m *osc.Message) {
		r.push(Message{Kind: KindTransportBPM, ValueF: argF(m, 0)})
	})

	d.AddMsgHandler("*", func(m *osc.Message) {
		switch {
		case strings.HasPrefix(m.Address, "/slot/"):
			r.routeSlot(m)
		case strings.HasPrefix(m.Address, "/channel/"):
			r.routeChannel(m)
		case strings.HasPrefix(m.Address, "/fx/"):
			r.routeFX(m)
		case strings.HasPrefix(m.Address, "/master/"):
			r.routeMaster(m)
		case strings.HasPrefix(m.Address, "/mod/"):
			r.routeMod(m)
		}
	})
}

func (r *Router) routeSlot(m *osc.Message) {
	slot := atoiOr(getFirstWildcard("/slot/", m.Address), 0)
	rest := strings.TrimPrefix(m.Address, "/slot/"+strconv.Itoa(slot))

	switch {
	case rest == "/descriptor":
		r.push(Message{Kind: KindSlotDescriptor, Slot: slot, Text: argS(m, 0)})
	case strings.HasPrefix(rest, "/param/"):
		name := strings.TrimPrefix(rest, "/param/")
		r.push(Message{Kind: KindSlotParam, Slot: slot, IndexA: slotParamIndex(name), ValueF: argF(m, 0)})
	case strings.HasPrefix(rest, "/custom/"):
		j := atoiOr(getFirstWildcard(rest[:len("/custom/")], rest), 0)
		r.push(Message{Kind: KindSlotCustomParam, Slot: slot, IndexA: j, ValueF: argF(m, 0)})
	case rest == "/env-source":
		r.push(Message{Kind: KindSlotEnvSource, Slot: slot, ValueI: argI(m, 0)})
	case rest == "/clock-rate":
		r.push(Message{Kind: KindSlotClockRate, Slot: slot, ValueI: argI(m, 0)})
	case rest == "/filter-type":
		r.push(Message{Kind: KindSlotFilterType, Slot: slot, ValueI: argI(m, 0)})
	case rest == "/midi/channel":
		r.push(Message{Kind: KindSlotMidiChannel, Slot: slot, ValueI: argI(m, 0)})
	case rest == "/midi/note-on":
		ch, key, vel, err := decodeNoteOn(argI(m, 0), argI(m, 1), argI(m, 2))
		if err != nil {
			r.log.Warn().Err(err).Int("slot", slot).Msg("rejected note-on")
			return
		}
		r.push(Message{Kind: KindNoteOn, Slot: slot, ValueI: int(ch), IndexA: int(key), IndexB: int(vel)})
	case rest == "/midi/note-off":
		ch, key, vel, err := decodeNoteOff(argI(m, 0), argI(m, 1), argI(m, 2))
		if err != nil {
			r.log.Warn().Err(err).Int("slot", slot).Msg("rejected note-off")
			return
		}
		r.push(Message{Kind: KindNoteOff, Slot: slot, ValueI: int(ch), IndexA: int(key), IndexB: int(vel)})
	case rest == "/midi/all-notes-off":
		r.push(Message{Kind: KindAllNotesOff, Slot: slot})
	}
}

func (r *Router) routeChannel(m *osc.Message) {
	slot := atoiOr(getFirstWildcard("/channel/", m.Address), 0)
	field := strings.TrimPrefix(m.Address, "/channel/"+strconv.Itoa(slot)+"/")

	if strings.HasPrefix(field, "send/") {
		j := atoiOr(strings.TrimPrefix(field, "send/"), 0)
		r.push(Message{Kind: KindChannelParam, Slot: slot, Text: "send", IndexA: j, ValueF: argF(m, 0)})
		return
	}
	r.push(Message{Kind: KindChannelParam, Slot: slot, Text: field, ValueF: argF(m, 0)})
}

func (r *Router) routeFX(m *osc.Message) {
	slot := atoiOr(getFirstWildcard("/fx/", m.Address), 0)
	rest := strings.TrimPrefix(m.Address, "/fx/"+strconv.Itoa(slot))

	switch {
	case rest == "/kind":
		r.push(Message{Kind: KindFXKind, Slot: slot, Text: argS(m, 0)})
	case strings.HasPrefix(rest, "/param/"):
		k := atoiOr(strings.TrimPrefix(rest, "/param/"), 0)
		r.push(Message{Kind: KindFXParam, Slot: slot, IndexA: k, ValueF: argF(m, 0)})
	case rest == "/bypass":
		r.push(Message{Kind: KindFXBypass, Slot: slot, ValueI: argI(m, 0)})
	}
}

func (r *Router) routeMaster(m *osc.Message) {
	field := strings.TrimPrefix(m.Address, "/master/")
	r.push(Message{Kind: KindMasterParam, Text: field, ValueF: argF(m, 0), ValueI: argI(m, 0)})
}

func (r *Router) routeMod(m *osc.Message) {
	switch {
	case strings.HasPrefix(m.Address, "/mod/slot/"):
		rest := strings.TrimPrefix(m.Address, "/mod/slot/")
		slot := atoiOr(getFirstWildcard("", rest), 0)
		tail := strings.TrimPrefix(rest, strconv.Itoa(slot))
		switch {
		case tail == "/kind":
			r.push(Message{Kind: KindSlotModKind, Slot: slot, Text: argS(m, 0)})
		case strings.HasPrefix(tail, "/param/"):
			name := strings.TrimPrefix(tail, "/param/")
			r.push(Message{Kind: KindSlotModParam, Slot: slot, IndexA: modParamIndex(name), ValueF: argF(m, 0)})
		case tail == "/reset":
			r.push(Message{Kind: KindSlotModReset, Slot: slot})
		}
	case m.Address == "/mod/route/add":
		r.push(Message{
			Kind:   KindRouteAdd,
			IndexA: argI(m, 0), // source_slot
			IndexB: argI(m, 1), // source_channel
			IndexC: argI(m, 3), // target_index
			ValueF: argF(m, 2), // depth
		})
	case m.Address == "/mod/route/remove":
		r.push(Message{
			Kind:   KindRouteRemove,
			IndexA: argI(m, 0),
			IndexB: argI(m, 1),
			IndexC: argI(m, 2),
		})
	case m.Address == "/mod/boid/offsets":
		for i := 0; i+1 < len(m.Arguments); i += 2 {
			r.push(Message{Kind: KindBoidOffset, IndexC: argI(m, i), ValueF: argF(m, i+1)})
		}
	}
}
