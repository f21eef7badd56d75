package cli

import (
	"context"
	"fmt"
	"github.com/kinematic-ci/gdbbridge/bridge"
	"github.com/kinematic-ci/gdbbridge/list"
	"github.com/kinematic-ci/gdbbridge/runner"
	"log"
	"os"
)

type RunArgs struct {
	File    string `arg:"-f,--file" help:"Bridgefile with target definitions" default:"bridge.yaml"`
	Target  string `arg:"positional,required" help:"Target to run"`
	Verbose int    `arg:"-v,--verbose" help:"Log verbosity (1: session events, 2: protocol lines)"`
}

func Run(args *RunArgs) {
	bridgefile, baseDir := loadBridgefile(args.File)

	target, found := bridgefile.Target(args.Target)

	if !found {
		log.Fatalf("Target '%s' not found\n", args.Target)
	}

	logger := newLogger(args.Verbose)

	start := runner.BridgeStarter(
		bridge.WithDebugger(bridgefile.Debugger.Path),
		bridge.WithSetupCommands(bridgefile.Debugger.Setup...),
		bridge.WithLogger(logger),
		bridge.WithWorkingDirectory(baseDir),
	)

	results, err := runner.Run(context.Background(), start, target, baseDir, logger)

	for _, result := range results.Values() {
		printTwoCols(result.Case, describe(result))
	}

	if err != nil {
		log.Fatalln("Error running target:", err)
	}

	if failed := results.Failed(); failed > 0 {
		log.Printf("%d of %d cases failed\n", failed, len(results.Values()))
		os.Exit(1)
	}
}

func describe(result list.Result) string {
	if result.Err != nil {
		return "ERROR " + result.Err.Error()
	}

	status := "ok"

	if !result.Matched {
		status = "UNEXPECTED"
	}

	return fmt.Sprintf("%-10s %s", status, result.Reason)
}
