//go:build headless

package audio

// New opens the headless stub backend.
func New(sampleHz int) (Output, error) {
	return NewHeadlessOutput(sampleHz)
}
