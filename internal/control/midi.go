package control

import (
	"gitlab.com/gomidi/midi/v2/channel"
)

// decodeNoteOn validates a note-on triple against gomidi/midi/v2's
// channel-message range checking and returns the sanitized values.
// No driver or hardware port is opened — MIDI only ever arrives as
// OSC-carried control-plane values.
func decodeNoteOn(midiChannel, note, velocity int) (ch, key, vel uint8, err error) {
	if midiChannel < 1 || midiChannel > 16 {
		return 0, 0, 0, &ValidationError{Operation: "midi note-on", Details: "channel out of range 1..16"}
	}
	if note < 0 || note > 127 || velocity < 0 || velocity > 127 {
		return 0, 0, 0, &ValidationError{Operation: "midi note-on", Details: "note/velocity out of range 0..127"}
	}
	raw := channel.Channel(midiChannel - 1).NoteOn(uint8(note), uint8(velocity))
	var gotCh, gotKey, gotVel uint8
	if !raw.GetNoteOn(&gotCh, &gotKey, &gotVel) {
		return 0, 0, 0, &ValidationError{Operation: "midi note-on", Details: "message round-trip failed"}
	}
	return gotCh, gotKey, gotVel, nil
}

// decodeNoteOff mirrors decodeNoteOn for note-off messages.
func decodeNoteOff(midiChannel, note, velocity int) (ch, key, vel uint8, err error) {
	if midiChannel < 1 || midiChannel > 16 {
		return 0, 0, 0, &ValidationError{Operation: "midi note-off", Details: "channel out of range 1..16"}
	}
	if note < 0 || note > 127 || velocity < 0 || velocity > 127 {
		return 0, 0, 0, &ValidationError{Operation: "midi note-off", Details: "note/velocity out of range 0..127"}
	}
	raw := channel.Channel(midiChannel - 1).NoteOff(uint8(note))
	var gotCh, gotKey, gotVel uint8
	if !raw.GetNoteOff(&gotCh, &gotKey, &gotVel) {
		return 0, 0, 0, &ValidationError{Operation: "midi note-off", Details: "message round-trip failed"}
	}
	return gotCh, gotKey, gotVel, nil
}
