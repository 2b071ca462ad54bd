// Command lulu runs LC-3 program images.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	goIO "io"
	"log"
	"os"
	"os/signal"

	"github.com/aryanA101a/lulu/internal/translate"
	"github.com/aryanA101a/lulu/vm"
)

var f = translate.From

// exit statuses
const (
	exitHalt      = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInterrupt = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr goIO.Writer) int {
	flags := flag.NewFlagSet("lulu", flag.ContinueOnError)
	flags.SetOutput(stderr)
	verbose := flags.Bool("v", false, f("trace every executed instruction"))
	flags.Usage = func() {
		fmt.Fprintln(stderr, f("lulu [-v] [image-file1] ..."))
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitHalt
		}
		return exitUsage
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return exitUsage
	}

	logger := log.New(stderr, "", 0)
	var trace *log.Logger
	if *verbose {
		trace = logger
	}

	terminal := vm.NewTerminal(stdin, stdout, trace)
	machine := vm.NewVM(vm.WithConsole(terminal), vm.WithTrace(trace))

	if err := machine.Load(flags.Args()...); err != nil {
		var loadErr *vm.ErrLoad
		if errors.As(err, &loadErr) {
			logger.Print(f("failed to load image: %v", loadErr.Path))
			if trace != nil {
				trace.Print(loadErr.Err)
			}
		} else {
			logger.Print(err)
		}
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := terminal.EnableRawMode(); err != nil {
		logger.Print(f("terminal: %v", err))
		return exitFailure
	}
	defer terminal.Restore()

	done := make(chan error, 1)
	go func() {
		done <- machine.Run(ctx)
	}()

	select {
	case err := <-done:
		terminal.Flush()
		if errors.Is(err, context.Canceled) {
			terminal.Restore()
			fmt.Fprintln(stdout)
			return exitInterrupt
		}
		if err != nil {
			terminal.Restore()
			logger.Print(err)
			return exitFailure
		}
		return exitHalt
	case <-ctx.Done():
		terminal.Flush()
		terminal.Restore()
		fmt.Fprintln(stdout)
		return exitInterrupt
	}
}
