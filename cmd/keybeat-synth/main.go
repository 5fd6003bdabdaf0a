// Command keybeat-synth regenerates the sample WAV files.
package main

import (
	"flag"
	"fmt"
	"os"

	"keybeat/bank"
	"keybeat/synth"
)

func main() {
	out := flag.String("out", "sounds", "Output directory")
	seed := flag.Uint64("seed", 1, "Noise seed for the hammer excitation and drums")
	flag.Parse()

	fmt.Printf("Rendering %d felt piano notes and 3 drum hits at %d Hz into %s...\n",
		len(bank.DefaultLayout.Melody), synth.SampleRate, *out)

	paths, err := synth.Generate(*out, bank.DefaultLayout, *seed)
	for _, p := range paths {
		fmt.Printf("  wrote %s\n", p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Done!")
}
