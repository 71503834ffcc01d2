// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives an lcpu Cpu: it runs cycles until cancelled or
// faulted, refreshes the display on a fixed cadence, and publishes periodic
// statistics.
package emulator

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ezrec/lcpu/cpu"
	"github.com/ezrec/lcpu/io"
)

const (
	PRESENT_RATE = 24          // Default display refreshes per second.
	STATS_PERIOD = time.Second // Default statistics period.
)

// Quitter is a cancellation source, polled before every cycle.
type Quitter interface {
	QuitRequested() bool
}

var (
	_ Quitter = (*io.Quit)(nil)
	_ Quitter = (*io.Keyboard)(nil)
)

// Emulator state. CPU + display cadence + cancellation and stats plumbing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Optional listing, for fault line numbers.

	Quitters   []Quitter   // Cancellation sources.
	StatsSinks []StatsSink // Statistics receivers.

	PresentRate int              // Display refreshes per second.
	StatsPeriod time.Duration    // Time between statistics snapshots.
	Now         func() time.Time // Wall clock.

	Refreshes int // Display refreshes made by the cadence.

	started time.Time
	present *Cadence
	stats   *Cadence
}

// NewEmulator creates an emulator with a memory of size bytes.
func NewEmulator(size uint) (emu *Emulator) {
	emu = &Emulator{
		Cpu:         cpu.NewCpu(size),
		PresentRate: PRESENT_RATE,
		StatsPeriod: STATS_PERIOD,
		Now:         time.Now,
	}

	return
}

// Load installs a program image at address 0, and resets the CPU.
func (emu *Emulator) Load(rom *io.Rom) (count int, err error) {
	count, err = rom.Install(emu.Cpu.Memory)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %v bytes", count)
	}

	emu.Reset()
	return
}

// Reset the CPU, and restart the cadences.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Refreshes = 0
	emu.started = time.Time{}
}

// start begins timing at the first cycle.
func (emu *Emulator) start() {
	if emu.Now == nil {
		emu.Now = time.Now
	}

	now := emu.Now()
	emu.started = now

	emu.present = NewCadence(emu.PresentRate)
	emu.present.Reset(now)

	period := emu.StatsPeriod
	if period <= 0 {
		period = STATS_PERIOD
	}
	emu.stats = &Cadence{Period: period}
	emu.stats.Reset(now)

	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		log.Printf("emulator: start, %v Hz refresh", emu.PresentRate)
	}
}

// QuitRequested returns true if any cancellation source asks to stop.
func (emu *Emulator) QuitRequested() bool {
	for _, quitter := range emu.Quitters {
		if quitter.QuitRequested() {
			return true
		}
	}

	return false
}

// Snapshot returns the current statistics.
func (emu *Emulator) Snapshot() (stats Stats) {
	stats = Stats{
		Pc:        emu.Cpu.Register.Pc(),
		Ticks:     emu.Cpu.Ticks,
		DrawCalls: emu.Cpu.DrawCalls,
		Presents:  emu.Cpu.Presents,
		Refreshes: emu.Refreshes,
	}

	if !emu.started.IsZero() {
		stats.Elapsed = emu.Now().Sub(emu.started)
	}
	if stats.Elapsed > 0 {
		stats.Ips = int(float64(stats.Ticks) / stats.Elapsed.Seconds())
	}

	return
}

// Step performs a single iteration of the outer loop: poll cancellation,
// execute one cycle, then service the refresh and statistics cadences.
func (emu *Emulator) Step() (quit bool, err error) {
	if emu.started.IsZero() {
		emu.start()
	}

	if emu.QuitRequested() {
		if emu.Verbose {
			log.Printf("emulator: quit @ %08x", emu.Cpu.Register.Pc())
		}
		quit = true
		return
	}

	pc := emu.Cpu.Register.Pc()
	err = emu.Cpu.Tick()
	if err != nil && emu.Cpu.Fault == nil && errors.Is(err, cpu.ErrDisplay) {
		if emu.Verbose {
			log.Printf("emulator: @ %08x: %v", pc, err)
		}
		err = nil
	}
	if err != nil {
		rt := &ErrRuntime{Pc: pc, Err: err}
		if emu.Program != nil {
			if dbg := emu.Program.Debug(pc); dbg.Line != nil {
				rt.LineNo = dbg.LineNo
			}
		}
		err = rt
		return
	}

	now := emu.Now()

	if emu.present.Due(now) {
		emu.Refreshes++
		perr := emu.Cpu.Display.Present()
		if perr != nil && emu.Verbose {
			log.Printf("emulator: refresh: %v", perr)
		}
	}

	if emu.stats.Due(now) {
		stats := emu.Snapshot()
		for _, sink := range emu.StatsSinks {
			sink.Stats(stats)
		}
	}

	return
}

// Run executes cycles until a cancellation source or the context asks to
// stop, which returns nil, or until a fault, which returns an *ErrRuntime.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			if emu.Verbose {
				log.Printf("emulator: %v", ctx.Err())
			}
			return nil
		default:
		}

		var quit bool
		quit, err = emu.Step()
		if err != nil || quit {
			return
		}
	}
}
