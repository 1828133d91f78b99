// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/ezrec/sim86/emulator"
)

func main() {
	var output string
	var exec bool
	var clocks bool
	var dump string
	var watch string
	var limit int
	var verbose bool

	flag.StringVar(&output, "o", "-", "Listing output")
	flag.BoolVar(&exec, "exec", false, "Execute the instructions")
	flag.BoolVar(&clocks, "clocks", false, "Show clocks of executed instructions")
	flag.StringVar(&dump, "dump", "", "Write memory to this file after execution")
	flag.StringVar(&watch, "break", "", "Stop execution once this expression is true")
	flag.IntVar(&limit, "limit", 0, "Maximum instructions to execute, 0 for no limit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: Expected one binary file, got: %v", os.Args[0], flag.Args())
	}
	input := flag.Arg(0)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Exec = exec || clocks || len(dump) != 0 || len(watch) != 0
	emu.ShowClocks = clocks
	emu.Break = watch
	emu.Limit = limit

	inf := os.Stdin
	if input != "-" {
		var err error
		inf, err = os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
	}

	err := emu.LoadFrom(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	listing := bufio.NewWriter(ouf)
	emu.Listing = listing

	err = emu.Run()
	if err != nil {
		listing.Flush()
		log.Fatalf("%v: %v", input, err)
	}

	err = listing.Flush()
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if len(dump) != 0 {
		dmf, err := os.Create(dump)
		if err != nil {
			log.Fatalf("%v: %v", dump, err)
		}
		defer dmf.Close()

		err = emu.Dump(dmf)
		if err != nil {
			log.Fatalf("%v: %v", dump, err)
		}
	}
}
