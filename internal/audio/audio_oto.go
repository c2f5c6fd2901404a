//go:build !headless

package audio

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays the engine's stereo stream through the system audio
// device via oto v3. Its Read method runs on oto's own callback
// goroutine, so the sample source is published through an
// atomic.Pointer rather than guarded by the control mutex.
type OtoOutput struct {
	ctx    *oto.Context
	player *oto.Player

	src atomic.Pointer[Source]

	sampleBuf []float32

	mutex   sync.Mutex // guards start/stop/close, not the Read hot path
	started bool
}

// NewOtoOutput opens an oto context at sampleHz, stereo, float32LE.
func NewOtoOutput(sampleHz int) (*OtoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleHz,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // let oto pick a sensible default for the platform
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	out := &OtoOutput{
		ctx:       ctx,
		sampleBuf: make([]float32, 4096),
	}
	out.player = ctx.NewPlayer(out)
	return out, nil
}

// SetSource stores src for the next Read call to observe. Lock-free:
// the audio callback thread never waits on the control thread.
func (o *OtoOutput) SetSource(src Source) {
	o.src.Store(&src)
}

// Read implements io.Reader for oto.Player. p is a byte buffer holding
// interleaved float32LE stereo samples.
func (o *OtoOutput) Read(p []byte) (n int, err error) {
	srcPtr := o.src.Load()
	if srcPtr == nil || *srcPtr == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	src := *srcPtr

	numSamples := len(p) / 4 // one float32 per channel sample
	if len(o.sampleBuf) < numSamples {
		o.sampleBuf = make([]float32, numSamples)
	}
	buf := o.sampleBuf[:numSamples]

	pairs := src.ReadStereo(buf)
	for i := pairs * 2; i < numSamples; i++ {
		buf[i] = 0
	}

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&buf[0]))[:len(p)])
	return len(p), nil
}

func (o *OtoOutput) Start() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if !o.started {
		o.player.Play()
		o.started = true
	}
	return nil
}

func (o *OtoOutput) Stop() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.started {
		o.player.Pause()
		o.started = false
	}
}

func (o *OtoOutput) Close() {
	o.Stop()
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
}

func (o *OtoOutput) IsStarted() bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.started
}
