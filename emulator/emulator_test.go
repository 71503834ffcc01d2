package emulator

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ezrec/lcpu/cpu"
	"github.com/ezrec/lcpu/io"
)

// countQuitter asks to quit after a number of polls.
type countQuitter struct {
	after int
	polls int
}

func (cq *countQuitter) QuitRequested() bool {
	cq.polls++
	return cq.polls > cq.after
}

// flakyDisplay fails its first few Clear calls.
type flakyDisplay struct {
	fails  int
	clears int
}

func (fd *flakyDisplay) SetPixel(x, y uint8, rgb uint32) {}
func (fd *flakyDisplay) Present() error                  { return nil }

func (fd *flakyDisplay) Clear() error {
	fd.clears++
	if fd.clears <= fd.fails {
		return errors.New("surface lost")
	}
	return nil
}

// fakeClock only moves when told to.
type fakeClock struct {
	now time.Time
}

func (fc *fakeClock) Now() time.Time {
	return fc.now
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.now = fc.now.Add(d)
}

func newTestEmulator(t *testing.T, program ...string) (emu *Emulator) {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	emu = NewEmulator(4096)
	emu.Program = prog

	_, err = emu.Load(&io.Rom{Data: prog.Binary()})
	require.NoError(t, err)

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MEMORY_SIZE)

	assert.False(emu.Verbose)
	assert.Equal(cpu.MEMORY_SIZE, emu.Cpu.Memory.Size())
	assert.Equal(PRESENT_RATE, emu.PresentRate)
	assert.Equal(STATS_PERIOD, emu.StatsPeriod)
	assert.NotNil(emu.Now)
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(16)

	count, err := emu.Load(&io.Rom{Data: []byte{0xf4, 0, 0, 0}})
	assert.NoError(err)
	assert.Equal(4, count)
	assert.Equal(byte(0xf4), emu.Cpu.Memory.Data[0])

	_, err = emu.Load(&io.Rom{Data: make([]byte, 17)})
	assert.ErrorIs(err, io.ErrRomTooLarge)
}

func TestEmulatorRunFault(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"  addi r1 r0 5",
		"loop:",
		"  dec r1 r1",
		"  jmpinz loop",
		"  halt",
	)

	err := emu.Run(context.Background())

	var rt *ErrRuntime
	require.True(t, errors.As(err, &rt))
	assert.Equal(uint32(0x0c), rt.Pc)
	assert.Equal(5, rt.LineNo)

	var decode *cpu.ErrDecode
	assert.True(errors.As(err, &decode))
	assert.Equal(cpu.OP_HALT, decode.Opcode)

	assert.Equal(1+5*2, emu.Cpu.Ticks)
	assert.Equal(uint32(0), emu.Cpu.Register.Get(1))
}

func TestEmulatorRunMemoryFault(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"  li r1 0x00100000",
		"  lw r2 r1",
	)

	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrMemory)

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(uint32(0x08), rt.Pc)
		assert.Equal(2, rt.LineNo)
	}
}

func TestEmulatorQuit(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jmpi loop")

	quitter := &countQuitter{after: 10}
	emu.Quitters = append(emu.Quitters, &countQuitter{after: 1000}, quitter)

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(10, emu.Cpu.Ticks)
	assert.Equal(11, quitter.polls)
}

func TestEmulatorQuitAlert(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jmpi loop")

	qc := &io.Quit{}
	qc.Alert("test")
	emu.Quitters = append(emu.Quitters, qc)

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(0, emu.Cpu.Ticks)
}

func TestEmulatorContext(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jmpi loop")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(emu.Run(ctx))
	assert.Equal(0, emu.Cpu.Ticks)

	// Cancel while running.
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.NoError(emu.Run(ctx))
	assert.Greater(emu.Cpu.Ticks, 0)
}

func TestEmulatorCadence(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jmpi loop")

	clock := &fakeClock{now: time.Unix(1000, 0)}
	emu.Now = clock.Now

	frame := io.NewFrame()
	emu.Cpu.SetDisplay(frame)

	var snapshots []Stats
	emu.StatsSinks = append(emu.StatsSinks, StatsFunc(func(stats Stats) {
		snapshots = append(snapshots, stats)
	}))

	step := func() {
		quit, err := emu.Step()
		require.NoError(t, err)
		require.False(t, quit)
	}

	step()
	assert.Equal(0, emu.Refreshes)

	clock.Advance(41 * time.Millisecond)
	step()
	assert.Equal(0, emu.Refreshes)

	clock.Advance(1 * time.Millisecond)
	step()
	assert.Equal(1, emu.Refreshes)
	assert.Equal(1, frame.Presents)
	assert.Empty(snapshots)

	clock.Advance(958 * time.Millisecond)
	step()
	assert.Equal(2, emu.Refreshes)

	require.Len(t, snapshots, 1)
	assert.Equal(Stats{
		Pc:        0,
		Ticks:     4,
		Elapsed:   time.Second,
		Ips:       4,
		Refreshes: 2,
	}, snapshots[0])

	// Refreshes never count as frame presentations.
	assert.Equal(0, emu.Cpu.Presents)
}

func TestEmulatorPresentsCount(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"  clear",
		"  addi r2 r0 0x1ff",
		"loop:",
		"  draw r1 r1",
		"  dec r2 r2",
		"  jmpinz loop",
		"  halt",
	)

	clock := &fakeClock{now: time.Unix(1000, 0)}
	emu.Now = clock.Now

	err := emu.Run(context.Background())
	assert.ErrorIs(err, &cpu.ErrDecode{})

	stats := emu.Snapshot()
	assert.Equal(0x1ff, stats.DrawCalls)
	assert.Equal(2, stats.Presents)
	assert.Equal(0, stats.Refreshes)
	assert.Equal(0, stats.Ips)
}

func TestCadence(t *testing.T) {
	assert := assert.New(t)

	t0 := time.Unix(0, 0)
	cad := NewCadence(10)
	assert.Equal(100*time.Millisecond, cad.Period)

	// First use starts the period.
	assert.False(cad.Due(t0))
	assert.False(cad.Due(t0.Add(99 * time.Millisecond)))
	assert.True(cad.Due(t0.Add(100 * time.Millisecond)))
	assert.False(cad.Due(t0.Add(150 * time.Millisecond)))
	assert.True(cad.Due(t0.Add(210 * time.Millisecond)))

	// Missed periods are dropped.
	assert.True(cad.Due(t0.Add(1000 * time.Millisecond)))
	assert.False(cad.Due(t0.Add(1050 * time.Millisecond)))
	assert.True(cad.Due(t0.Add(1100 * time.Millisecond)))

	assert.Equal(time.Second, NewCadence(0).Period)
}

func TestLogSink(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	sink := &LogSink{
		Logger:  log.New(buf, "", 0),
		Printer: message.NewPrinter(language.English),
	}

	sink.Stats(Stats{Pc: 0x10, Ips: 1234567, DrawCalls: 3, Presents: 1})
	assert.Equal("PC:00000010 IPS:1,234,567 Draw:3 Frames:1\n", buf.String())
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Pc: 0x40, LineNo: 3, Err: cpu.ErrMemory}
	assert.ErrorIs(err, cpu.ErrMemory)
	assert.Contains(err.Error(), "line 3")
	assert.Contains(err.Error(), "00000040")

	err = &ErrRuntime{Pc: 0x40, Err: cpu.ErrMemory}
	assert.NotContains(err.Error(), "line")
}

func TestEmulatorDisplayError(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"loop: clear",
		"  jmpi loop",
	)

	display := &flakyDisplay{fails: 1}
	emu.Cpu.SetDisplay(display)

	quitter := &countQuitter{after: 100}
	emu.Quitters = append(emu.Quitters, quitter)

	assert.NoError(emu.Run(context.Background()))
	assert.NoError(emu.Cpu.Fault)
	assert.Equal(100, emu.Cpu.Ticks)
	assert.Equal(101, quitter.polls)
	assert.Equal(50, display.clears)
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jmpi loop")
	assert.False(emu.Cpu.Verbose)

	emu.Verbose = true
	_, err := emu.Step()
	assert.NoError(err)
	assert.True(emu.Cpu.Verbose)

	// Only applied when the run starts.
	emu.Cpu.Verbose = false
	_, err = emu.Step()
	assert.NoError(err)
	assert.False(emu.Cpu.Verbose)
}
