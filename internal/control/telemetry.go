package control

import (
	"strconv"

	"github.com/hypebeast/go-osc/osc"

	"github.com/thegdyne/sauceengine-go/internal/meter"
)

// Telemetry sends the engine's outbound metering and grid-decimation
// streams to the control peer, all client-side (the audio thread never
// touches the OSC client — it only writes decimated values the control
// thread picks up and forwards).
type Telemetry struct {
	client *osc.Client
}

// NewTelemetry wraps client for outbound telemetry sends.
func NewTelemetry(client *osc.Client) *Telemetry {
	return &Telemetry{client: client}
}

// SendSlotLevel emits /level/slot/N (peak, rms).
func (t *Telemetry) SendSlotLevel(slot int, s meter.Summary) {
	msg := osc.NewMessage("/level/slot/" + strconv.Itoa(slot))
	msg.Append(s.Peak)
	msg.Append(s.RMS)
	t.client.Send(msg)
}

// SendMasterLevel emits /level/master (peak, rms).
func (t *Telemetry) SendMasterLevel(s meter.Summary) {
	msg := osc.NewMessage("/level/master")
	msg.Append(s.Peak)
	msg.Append(s.RMS)
	t.client.Send(msg)
}

// SendModBuses emits the full 149-entry decimated grid snapshot as
// /mod/buses with 149 float arguments.
func (t *Telemetry) SendModBuses(values [149]float32) {
	msg := osc.NewMessage("/mod/buses")
	for _, v := range values {
		msg.Append(v)
	}
	t.client.Send(msg)
}
