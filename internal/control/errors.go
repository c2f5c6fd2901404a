package control

import "fmt"

// ValidationError reports a rejected descriptor or route: missing
// fields, an exponential curve with a non-positive bound, or a route
// target index out of range. Surfaced to the control plane; never
// retried automatically.
type ValidationError struct {
	Operation string
	Details   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation %s failed: %s", e.Operation, e.Details)
}

// InstantiationFailure reports a requested DSP kind that's unknown, or
// a parameter out of bounds at allocation time. The slot stays empty
// and this status is reported back to the control plane.
type InstantiationFailure struct {
	Operation string
	Details   string
	Err       error
}

func (e *InstantiationFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("instantiation %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("instantiation %s failed: %s", e.Operation, e.Details)
}

// OverrunWarning reports an audio block that took longer than its
// deadline. Logged; processing continues regardless.
type OverrunWarning struct {
	BlockIndex  uint64
	OverrunNanos int64
}

func (e *OverrunWarning) Error() string {
	return fmt.Sprintf("block %d overran its deadline by %dns", e.BlockIndex, e.OverrunNanos)
}

// NonFiniteState reports a NaN/Inf detected in a voice or modulator.
// The affected component resets to defaults; the failure never
// propagates to other components.
type NonFiniteState struct {
	Component string
	Detail    string
}

func (e *NonFiniteState) Error() string {
	return fmt.Sprintf("non-finite state in %s: %s", e.Component, e.Detail)
}

// MessageBacklog reports a full control queue ring. The oldest message
// of the full ring is dropped: Set/Structural messages only ever displace
// each other, and triggers only ever displace older triggers. Dropped is
// the queue's running total across both rings.
type MessageBacklog struct {
	Dropped int
}

func (e *MessageBacklog) Error() string {
	return fmt.Sprintf("control queue backlog: dropped %d messages", e.Dropped)
}

// DisconnectedPeer reports a heartbeat loss (3 missed acks). Engine
// state is retained; reconnect triggers an automatic full-state resync.
type DisconnectedPeer struct {
	MissedAcks int
}

func (e *DisconnectedPeer) Error() string {
	return fmt.Sprintf("control peer disconnected after %d missed acks", e.MissedAcks)
}
