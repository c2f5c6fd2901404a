//go:build headless

package audio

// HeadlessOutput discards the stream instead of opening a device. Used
// for CI and offline rendering where no audio hardware is present.
type HeadlessOutput struct {
	src     Source
	started bool
}

// NewHeadlessOutput returns a no-op backend. sampleHz is accepted for
// signature parity with NewOtoOutput but otherwise unused.
func NewHeadlessOutput(sampleHz int) (*HeadlessOutput, error) {
	return &HeadlessOutput{}, nil
}

func (h *HeadlessOutput) SetSource(src Source) { h.src = src }

func (h *HeadlessOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessOutput) Stop() { h.started = false }

func (h *HeadlessOutput) Close() { h.started = false }

func (h *HeadlessOutput) IsStarted() bool { return h.started }
