package audio

import "sync/atomic"

// Ring is a single-producer/single-consumer lock-free ring buffer of
// interleaved stereo frames. The engine's processing goroutine is the
// sole writer; the playback backend's callback thread is the sole
// reader. Capacity is rounded up to a power of two so index wraparound
// is a mask instead of a modulo.
type Ring struct {
	buf  []float32 // capacity*2 interleaved L/R slots
	mask int       // capacity-1, capacity in frames

	writeIdx atomic.Uint64
	readIdx  atomic.Uint64
}

// NewRing creates a ring holding at least capacityFrames stereo frames.
func NewRing(capacityFrames int) *Ring {
	cap := 1
	for cap < capacityFrames {
		cap <<= 1
	}
	return &Ring{
		buf:  make([]float32, cap*2),
		mask: cap - 1,
	}
}

// WriteStereo appends interleaved [L,R,...] frames, dropping the oldest
// unread frames if the ring is full so the writer never blocks.
func (r *Ring) WriteStereo(frames []float32) {
	w := r.writeIdx.Load()
	read := r.readIdx.Load()
	capacity := uint64(r.mask + 1)

	n := uint64(len(frames) / 2)
	if n > capacity {
		frames = frames[len(frames)-int(capacity)*2:]
		n = capacity
	}
	for i := uint64(0); i < n; i++ {
		idx := (w + i) & uint64(r.mask)
		r.buf[idx*2] = frames[i*2]
		r.buf[idx*2+1] = frames[i*2+1]
	}
	newWrite := w + n
	if newWrite-read > capacity {
		read = newWrite - capacity
		r.readIdx.Store(read)
	}
	r.writeIdx.Store(newWrite)
}

// ReadStereo implements Source, satisfying the audio callback's pull
// model. Underruns are filled with silence rather than stalling.
func (r *Ring) ReadStereo(out []float32) int {
	read := r.readIdx.Load()
	w := r.writeIdx.Load()
	available := w - read

	want := uint64(len(out) / 2)
	n := want
	if available < n {
		n = available
	}
	for i := uint64(0); i < n; i++ {
		idx := (read + i) & uint64(r.mask)
		out[i*2] = r.buf[idx*2]
		out[i*2+1] = r.buf[idx*2+1]
	}
	for i := n * 2; i < uint64(len(out)); i++ {
		out[i] = 0
	}
	r.readIdx.Store(read + n)
	return int(n)
}
