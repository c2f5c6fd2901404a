package engine

import "github.com/thegdyne/sauceengine-go/internal/grid"

// buildTargets produces the fixed 149-entry metadata table once at boot,
// matching the wire-contract index layout documented in package grid.
func buildTargets() [grid.NumTargets]grid.Target {
	var t [grid.NumTargets]grid.Target

	for g := 0; g < 8; g++ {
		base := grid.GeneratorBase + g*grid.GeneratorStride
		t[base+grid.ParamFreq] = grid.Target{Min: 20, Max: 8000, Default: 440, Kind: grid.KindExponential}
		t[base+grid.ParamCutoff] = grid.Target{Min: 0, Max: 1, Default: 1, Kind: grid.KindLinear}
		t[base+grid.ParamResonance] = grid.Target{Min: 0, Max: 1, Default: 0, Kind: grid.KindLinear}
		t[base+grid.ParamAttack] = grid.Target{Min: 0.001, Max: 5, Default: 0.01, Kind: grid.KindExponential}
		t[base+grid.ParamDecay] = grid.Target{Min: 0.001, Max: 5, Default: 0.3, Kind: grid.KindExponential}
	}

	for g := 0; g < 8; g++ {
		base := grid.GeneratorCustomBase + g*grid.GeneratorCustomStride
		for j := 0; j < 5; j++ {
			t[base+j] = grid.Target{Min: 0, Max: 1, Default: 0, Kind: grid.KindLinear}
		}
	}

	for m := 0; m < 4; m++ {
		base := grid.ModulatorBase + m*grid.ModulatorStride
		// 7 params per modulator slot. LFO reads rate, shape, pattern,
		// rotation and the polarity of outputs B-D; SauceOfGrav reads rate,
		// depth, gravity, resonance, excursion, calm and tension; Sloth
		// reads none.
		t[base+0] = grid.Target{Min: 0.01, Max: 20, Default: 1, Kind: grid.KindExponential} // rate Hz
		t[base+1] = grid.Target{Min: 0, Max: 1, Default: 1, Kind: grid.KindLinear}           // depth (LFO: shape)
		t[base+2] = grid.Target{Min: 0, Max: 1, Default: 0.5, Kind: grid.KindLinear}
		t[base+3] = grid.Target{Min: 0, Max: 1, Default: 0.5, Kind: grid.KindLinear}
		t[base+4] = grid.Target{Min: 0, Max: 1, Default: 0.5, Kind: grid.KindLinear}
		t[base+5] = grid.Target{Min: 0, Max: 1, Default: 0.5, Kind: grid.KindLinear}
		t[base+6] = grid.Target{Min: 0, Max: 1, Default: 0.5, Kind: grid.KindLinear}
	}

	for c := 0; c < 8; c++ {
		base := grid.ChannelBase + c*grid.ChannelStride
		t[base+grid.ParamEchoSend] = grid.Target{Min: 0, Max: 1, Default: 0, Kind: grid.KindLinear}
		t[base+grid.ParamReverbSend] = grid.Target{Min: 0, Max: 1, Default: 0, Kind: grid.KindLinear}
		t[base+grid.ParamPan] = grid.Target{Min: -1, Max: 1, Default: 0, Kind: grid.KindLinear}
	}

	m := grid.MasterBase
	t[m+masterHeatDrive] = grid.Target{Min: 1, Max: 20, Default: 1, Kind: grid.KindExponential}
	t[m+masterHeatMakeup] = grid.Target{Min: 0.1, Max: 2, Default: 1, Kind: grid.KindLinear}
	t[m+masterFilterCutoff1] = grid.Target{Min: 0, Max: 1, Default: 1, Kind: grid.KindLinear}
	t[m+masterFilterResonance1] = grid.Target{Min: 0, Max: 1, Default: 0, Kind: grid.KindLinear}
	t[m+masterFilterCutoff2] = grid.Target{Min: 0, Max: 1, Default: 1, Kind: grid.KindLinear}
	t[m+masterFilterResonance2] = grid.Target{Min: 0, Max: 1, Default: 0, Kind: grid.KindLinear}
	t[m+masterFilterSyncRatio] = grid.Target{Min: 1, Max: 16, Default: 2, Kind: grid.KindExponential}
	t[m+masterEQLowCutHz] = grid.Target{Min: 20, Max: 400, Default: 20, Kind: grid.KindExponential}
	t[m+masterEQLo] = grid.Target{Min: -1, Max: 1, Default: 0, Kind: grid.KindLinear}
	t[m+masterEQMid] = grid.Target{Min: -1, Max: 1, Default: 0, Kind: grid.KindLinear}
	t[m+masterEQHi] = grid.Target{Min: -1, Max: 1, Default: 0, Kind: grid.KindLinear}
	t[m+masterCompThresholdDB] = grid.Target{Min: -40, Max: 0, Default: -12, Kind: grid.KindLinear}
	t[m+masterCompRatio] = grid.Target{Min: 1, Max: 20, Default: 4, Kind: grid.KindExponential}
	t[m+masterCompAttackS] = grid.Target{Min: 0.001, Max: 0.3, Default: 0.01, Kind: grid.KindExponential}
	t[m+masterCompReleaseS] = grid.Target{Min: 0.01, Max: 2, Default: 0.15, Kind: grid.KindExponential}
	t[m+masterCompMakeupDB] = grid.Target{Min: 0, Max: 24, Default: 0, Kind: grid.KindLinear}
	t[m+masterVolume] = grid.Target{Min: 0, Max: 1.5, Default: 1, Kind: grid.KindLinear}

	return t
}

// Offsets of the 17 master-chain parameters within the grid's master
// block (grid.MasterBase..grid.MasterBase+16).
const (
	masterHeatDrive = iota
	masterHeatMakeup
	masterFilterCutoff1
	masterFilterResonance1
	masterFilterCutoff2
	masterFilterResonance2
	masterFilterSyncRatio
	masterEQLowCutHz
	masterEQLo
	masterEQMid
	masterEQHi
	masterCompThresholdDB
	masterCompRatio
	masterCompAttackS
	masterCompReleaseS
	masterCompMakeupDB
	masterVolume
)
