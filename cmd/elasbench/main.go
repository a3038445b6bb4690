// Command elasbench drives the ELAS stereo pipeline against synthetic
// rectified stereo pairs for benchmarking and diagnostics.
package main

import (
	"log"
	"os"

	"github.com/cwbudde/goelas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("Error: %v\n", err)
		os.Exit(1)
	}
}
