//go:build !headless

package audio

// New opens the platform's real audio backend.
func New(sampleHz int) (Output, error) {
	return NewOtoOutput(sampleHz)
}
