// Command synthengine boots the synthesis engine, opens an audio output
// stream, and listens for OSC control traffic until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/thegdyne/sauceengine-go/internal/audio"
	"github.com/thegdyne/sauceengine-go/internal/control"
	"github.com/thegdyne/sauceengine-go/internal/engine"
	"github.com/thegdyne/sauceengine-go/internal/registry"
)

func main() {
	var (
		sampleHz      = pflag.Int("sample-rate", 48000, "audio sample rate in Hz")
		blockSize     = pflag.Int("block-size", 512, "render block size in frames")
		bpm           = pflag.Float64("bpm", 120, "default transport BPM at boot")
		listenAddr    = pflag.String("listen", "0.0.0.0:9000", "OSC control listen address")
		peerIP        = pflag.String("peer-ip", "127.0.0.1", "OSC peer address for telemetry/heartbeat")
		peerPort      = pflag.Int("peer-port", 9001, "OSC peer port for telemetry/heartbeat")
		descriptorDir = pflag.String("descriptors", "descriptors", "directory of generator descriptor YAML files")
		verbose       = pflag.Bool("verbose", false, "enable debug-level logging")
	)
	pflag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(*sampleHz, *blockSize, *bpm, *listenAddr, *peerIP, *peerPort, *descriptorDir, log); err != nil {
		log.Error().Err(err).Msg("fatal startup error")
		os.Exit(1)
	}
}

func run(sampleHz, blockSize int, bpm float64, listenAddr, peerIP string, peerPort int, descriptorDir string, log zerolog.Logger) error {
	reg, err := registry.Load(descriptorDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", descriptorDir).Msg("no descriptors loaded, generators start unassigned")
		reg = registry.New()
	}

	cfg := engine.Config{
		SampleHz:      float32(sampleHz),
		BlockSize:     blockSize,
		DefaultBPM:    bpm,
		DescriptorDir: descriptorDir,
	}
	eng := engine.New(cfg, reg, log)

	out, err := audio.New(sampleHz)
	if err != nil {
		return fmt.Errorf("opening audio output: %w", err)
	}
	defer out.Close()

	ring := audio.NewRing(blockSize * 8)
	out.SetSource(ring)

	queue := control.NewQueue(256, 512)
	router := control.NewRouter(listenAddr, peerIP, peerPort, queue, log)
	router.Heartbeat().SetReplaySource(eng, queue)
	telemetry := control.NewTelemetry(router.Client())

	if err := out.Start(); err != nil {
		return fmt.Errorf("starting audio output: %w", err)
	}
	defer out.Stop()

	go router.Heartbeat().Start()
	defer router.Heartbeat().Stop()

	routerErr := make(chan error, 1)
	go func() { routerErr <- router.ListenAndServe() }()

	renderDone := make(chan struct{})
	go renderLoop(eng, queue, telemetry, ring, blockSize, renderDone)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-routerErr:
		return fmt.Errorf("OSC router stopped: %w", err)
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	close(renderDone)
	return nil
}

// renderLoop drains pending control messages and renders one block at a
// time into ring, feeding the audio backend's pull-based Source
// contract. It also forwards decimated metering telemetry to the
// control peer once per block when due.
func renderLoop(eng *engine.Engine, queue *control.Queue, telemetry *control.Telemetry, ring *audio.Ring, blockSize int, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		eng.Drain(queue)
		block := eng.RenderBlock(blockSize)
		ring.WriteStereo(block)

		if eng.TelemetryDue() {
			for i := 0; i < 8; i++ {
				telemetry.SendSlotLevel(i+1, eng.SlotSummary(i))
			}
			telemetry.SendMasterLevel(eng.MasterSummary())
			telemetry.SendModBuses(eng.GridSnapshot())
		}
	}
}
