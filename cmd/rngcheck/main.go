// Package main provides rngcheck, a CLI that fills synced buffers with
// random samples and reports their statistics.
//
// Usage:
//
//	rngcheck [gaussian|uniform|bernoulli|bits]
//
// Configuration is read from SYNCMEM_* environment variables and an
// optional .env file.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("rngcheck: ")
	os.Exit(realMain(os.Args[1:], os.Stdout))
}

// realMain runs the CLI and returns the process exit code. Every path
// returns through here so the device is always released.
func realMain(args []string, stdout io.Writer) int {
	cmd := "gaussian"
	if len(args) > 0 {
		cmd = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Print(err)
		return 1
	}

	dev, release, err := openDevice(cfg)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer release()

	ok, err := run(stdout, cmd, cfg, dev)
	if err != nil {
		log.Print(err)
		return 1
	}
	if !ok {
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rngcheck [gaussian|uniform|bernoulli|bits]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  SYNCMEM_DEVICE   emulated, webgpu or none (default emulated)")
	fmt.Fprintln(w, "  SYNCMEM_SEED     seed, 0 draws one from OS entropy (default 1701)")
	fmt.Fprintln(w, "  SYNCMEM_SAMPLES  sample count (default 10000)")
	fmt.Fprintln(w, "  SYNCMEM_DTYPE    float32 or float64 (default float32)")
	fmt.Fprintln(w, "  SYNCMEM_WORKERS  emulated kernel workers (default one per CPU)")
	fmt.Fprintln(w, "  SYNCMEM_MU       Gaussian mean (default 0)")
	fmt.Fprintln(w, "  SYNCMEM_SIGMA    Gaussian standard deviation (default 1)")
	fmt.Fprintln(w, "  SYNCMEM_LOWER    uniform lower bound (default -1)")
	fmt.Fprintln(w, "  SYNCMEM_UPPER    uniform upper bound (default 1)")
	fmt.Fprintln(w, "  SYNCMEM_P        Bernoulli probability (default 0.5)")
}
