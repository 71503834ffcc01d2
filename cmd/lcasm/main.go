// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/lcpu/cpu"
)

// defines collects -D NAME=VALUE flags.
type defines map[string]string

func (d defines) String() string {
	var out []string
	for name, value := range d {
		out = append(out, name+"="+value)
	}
	return strings.Join(out, ",")
}

func (d defines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("%q is not NAME=VALUE", text)
	}
	d[name] = value
	return nil
}

func main() {
	var output string
	var listing bool
	var verbose bool
	predefines := defines{}

	flag.StringVar(&output, "o", "", "Output image (default: source with .bin suffix)")
	flag.Var(predefines, "D", "Predefine an equate, as NAME=VALUE")
	flag.BoolVar(&listing, "l", false, "Print a listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [flags] source.s\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	source := flag.Arg(0)

	if len(output) == 0 {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
	}

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for name, value := range predefines {
		asm.Predefine(name, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if listing {
		for address, code := range prog.Codes() {
			dbg := prog.Debug(address)
			fmt.Printf("%08x: %08x  %-28v ; %v\n", address, uint32(code), code, dbg.LineNo)
		}
	}

	err = os.WriteFile(output, prog.Binary(), 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
