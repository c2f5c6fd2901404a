package control

// Kind discriminates the closed set of message variants the audio
// thread can receive. No interface{} payload: every variant's fields
// live in the same fixed-size Message struct so the queue never
// allocates per message.
type Kind int

const (
	KindSetBase Kind = iota
	KindSlotDescriptor
	KindSlotParam
	KindSlotCustomParam
	KindSlotModKind
	KindSlotModParam
	KindSlotModReset
	KindSlotEnvSource
	KindSlotClockRate
	KindSlotFilterType
	KindSlotMidiChannel
	KindChannelParam
	KindFXKind
	KindFXParam
	KindFXBypass
	KindMasterParam
	KindRouteAdd
	KindRouteRemove
	KindBoidOffset
	KindTransportBPM
	KindNoteOn
	KindNoteOff
	KindAllNotesOff
	KindPanic
	KindPing
)

// IsTrigger reports whether this message is a Trigger-category
// message (note on/off, all-notes-off, panic). Triggers travel on their
// own ring, so a backlog of Set/Structural messages never evicts one; a
// full trigger ring overwrites its own oldest trigger.
func (k Kind) IsTrigger() bool {
	switch k {
	case KindNoteOn, KindNoteOff, KindAllNotesOff, KindPanic:
		return true
	default:
		return false
	}
}

// Message is the single closed variant every control-to-audio
// communication is expressed as. Only the fields relevant to Kind are
// meaningful; the rest are zero.
type Message struct {
	Kind Kind

	Slot int // 1-based slot/channel/FX index, 0 when not applicable

	IndexA int // e.g. custom-param index, route source slot, note
	IndexB int // e.g. route source channel, velocity
	IndexC int // e.g. route target index

	ValueF float32
	ValueI int
	Text   string // descriptor id, DSP kind, FX kind, channel-param field name
}
