package master

// Chain assembles the five bypassable master inserts in their fixed
// processing order, followed by master volume (not bypassable).
type Chain struct {
	Heat       *Stage
	DualFilter *Stage
	EQ         *Stage
	Compressor *Stage
	Limiter    *Stage

	heatImpl       *Heat
	dualFilterImpl *DualFilter
	eqImpl         *EQ
	compressorImpl *Compressor
	limiterImpl    *Limiter

	Volume float32 // linear, applied after the limiter
}

// NewChain builds a chain with every insert at its default settings and
// none bypassed.
func NewChain(sampleHz float32) *Chain {
	heat := NewHeat(sampleHz)
	dualFilter := NewDualFilter(sampleHz)
	eq := NewEQ(sampleHz)
	compressor := NewCompressor(sampleHz)
	limiter := NewLimiter(sampleHz)

	return &Chain{
		Heat:       NewStage(sampleHz, heat),
		DualFilter: NewStage(sampleHz, dualFilter),
		EQ:         NewStage(sampleHz, eq),
		Compressor: NewStage(sampleHz, compressor),
		Limiter:    NewStage(sampleHz, limiter),

		heatImpl:       heat,
		dualFilterImpl: dualFilter,
		eqImpl:         eq,
		compressorImpl: compressor,
		limiterImpl:    limiter,

		Volume: 1.0,
	}
}

// HeatParams, DualFilterParams, EQParams, and CompressorParams expose the
// underlying insert so the control layer can adjust its parameters
// without reaching through the bypass wrapper.
func (c *Chain) HeatParams() *Heat             { return c.heatImpl }
func (c *Chain) DualFilterParams() *DualFilter { return c.dualFilterImpl }
func (c *Chain) EQParams() *EQ                 { return c.eqImpl }
func (c *Chain) CompressorParams() *Compressor { return c.compressorImpl }
func (c *Chain) LimiterParams() *Limiter       { return c.limiterImpl }

// Process runs a sample through every insert in order, then applies
// master volume.
func (c *Chain) Process(in Frame) Frame {
	x := c.Heat.Process(in)
	x = c.DualFilter.Process(x)
	x = c.EQ.Process(x)
	x = c.Compressor.Process(x)
	x = c.Limiter.Process(x)
	return Frame{x[0] * c.Volume, x[1] * c.Volume}
}
