// Package audio wires the engine's stereo output stream to a playback
// backend. The backend is selected at build time: oto v3 for real
// hardware playback, a headless stub for CI and offline rendering.
package audio

// Source supplies interleaved stereo float32 samples on demand, pulled
// from the audio callback thread. Implementations must not block or
// allocate.
type Source interface {
	// ReadStereo fills out with n interleaved [L, R, L, R, ...] sample
	// pairs and returns how many pairs it actually wrote. A short read
	// is treated as silence for the remainder of the buffer.
	ReadStereo(out []float32) (pairs int)
}

// Output is the backend contract shared by every playback
// implementation, regardless of build tag.
type Output interface {
	// SetSource atomically swaps the sample source the backend pulls
	// from. Safe to call at any time, including while started.
	SetSource(src Source)
	Start() error
	Stop()
	Close()
	IsStarted() bool
}
