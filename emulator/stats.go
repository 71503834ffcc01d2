package emulator

import (
	"log"
	"time"

	"golang.org/x/text/message"

	"github.com/ezrec/lcpu/translate"
)

// Stats is a snapshot of emulator progress.
type Stats struct {
	Pc        uint32        // Program counter.
	Ticks     int           // Instructions executed.
	Elapsed   time.Duration // Wall time since start.
	Ips       int           // Instructions per second, averaged since start.
	DrawCalls int           // DRAW instructions executed.
	Presents  int           // Frames presented by DRAW and CLEAR.
	Refreshes int           // Frames presented by the emulator cadence.
}

// StatsSink receives periodic statistics snapshots.
type StatsSink interface {
	Stats(stats Stats)
}

// StatsFunc adapts a function to a StatsSink.
type StatsFunc func(stats Stats)

func (fn StatsFunc) Stats(stats Stats) {
	fn(stats)
}

// LogSink logs snapshots, with locale digit grouping.
type LogSink struct {
	Logger  *log.Logger      // Defaults to log.Default().
	Printer *message.Printer // Defaults to the host locale printer.
}

func (ls *LogSink) Stats(stats Stats) {
	logger := ls.Logger
	if logger == nil {
		logger = log.Default()
	}
	printer := ls.Printer
	if printer == nil {
		printer = translate.Printer()
	}

	logger.Print(printer.Sprintf("PC:%08x IPS:%d Draw:%d Frames:%d",
		stats.Pc, stats.Ips, stats.DrawCalls, stats.Presents))
}
