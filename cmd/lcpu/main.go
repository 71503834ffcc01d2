// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"syscall"

	"github.com/bradleyjkemp/memviz"

	"github.com/ezrec/lcpu/cpu"
	"github.com/ezrec/lcpu/display"
	"github.com/ezrec/lcpu/emulator"
	"github.com/ezrec/lcpu/io"
	"github.com/ezrec/lcpu/statsview"
)

func init() {
	// SDL must stay on the main thread.
	runtime.LockOSThread()
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [flags] image.bin\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	os.Exit(run())
}

// run returns the process exit code.
func run() (code int) {
	var verbose bool
	var headless bool
	var pngPath string
	var input string
	var memSize uint
	var fps int
	var scale int
	var stats bool
	var memvizPath string
	var tty bool

	flag.BoolVar(&verbose, "v", false, "Verbose instruction trace")
	flag.BoolVar(&headless, "headless", false, "Run without a window")
	flag.StringVar(&pngPath, "png", "", "Write the final frame to a PNG file")
	flag.StringVar(&input, "i", "", "Tape input for READ")
	flag.UintVar(&memSize, "mem", cpu.MEMORY_SIZE, "Memory size, in bytes")
	flag.IntVar(&fps, "fps", emulator.PRESENT_RATE, "Display refreshes per second")
	flag.IntVar(&scale, "scale", 3, "Window scaling")
	flag.BoolVar(&stats, "stats", false, "Launch the runtime statistics server")
	flag.StringVar(&memvizPath, "memviz", "", "Write a graph of the final CPU state")
	flag.BoolVar(&tty, "tty", false, "Quit on 'q' or ESC from the terminal")
	flag.Usage = usage

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	image := flag.Arg(0)

	rom := &io.Rom{}
	_, err := rom.ReadFile(image)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	emu := emulator.NewEmulator(memSize)
	emu.Verbose = verbose
	emu.PresentRate = fps

	_, err = emu.Load(rom)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Cpu.SetInput(&io.Tape{Input: inf})
	}

	var frame *io.Frame
	if headless {
		frame = io.NewFrame()
		emu.Cpu.SetDisplay(frame)
	} else {
		win, err := display.NewWindow(image, scale)
		if err != nil {
			log.Fatalf("display: %v", err)
		}
		defer win.Close()
		win.Verbose = verbose
		frame = win.Frame
		emu.Cpu.SetDisplay(win)
		emu.Quitters = append(emu.Quitters, win)
	}

	quit := &io.Quit{Verbose: verbose}
	quit.Notify(os.Interrupt, syscall.SIGTERM)
	defer quit.Stop()
	emu.Quitters = append(emu.Quitters, quit)

	if tty {
		kb, err := io.OpenKeyboard("/dev/tty")
		if err != nil {
			log.Printf("/dev/tty: %v", err)
			return 1
		}
		defer kb.Close()
		emu.Quitters = append(emu.Quitters, kb)
	}

	emu.StatsSinks = append(emu.StatsSinks, &emulator.LogSink{})

	if stats {
		if !statsview.Available() {
			log.Printf("stats: not built in")
		}
		statsview.Launch(os.Stderr)
	}

	err = emu.Run(context.Background())
	if err != nil {
		log.Printf("%v: %v\n%v", image, err, emu.Cpu)
		code = 1
	}

	if len(pngPath) != 0 {
		perr := writePNG(pngPath, frame)
		if perr != nil {
			log.Printf("%v: %v", pngPath, perr)
			code = 1
		}
	}

	if len(memvizPath) != 0 {
		verr := writeMemviz(memvizPath, emu.Cpu)
		if verr != nil {
			log.Printf("%v: %v", memvizPath, verr)
			code = 1
		}
	}

	return
}

func writePNG(path string, frame *io.Frame) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = frame.WritePNG(ouf)
	cerr := ouf.Close()
	if err == nil {
		err = cerr
	}

	return
}

func writeMemviz(path string, state *cpu.Cpu) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	memviz.Map(ouf, &state.Register, &state.History)

	return ouf.Close()
}
