package cli

import (
	"context"
	"fmt"
	"github.com/kinematic-ci/gdbbridge/bridge"
	"github.com/mattn/go-isatty"
	"io"
	"log"
	"os"
)

type ExecArgs struct {
	Debugger   string   `arg:"--gdb" help:"Debugger binary" default:"gdb"`
	Input      string   `arg:"-i,--input" help:"File fed to the target's stdin, - for stdin" default:"-"`
	Setup      []string `arg:"-s,--setup,separate" help:"Extra debugger command issued before loading the executable"`
	Verbose    int      `arg:"-v,--verbose" help:"Log verbosity (1: session events, 2: protocol lines)"`
	Executable string   `arg:"positional,required" help:"Program to run under the debugger"`
}

func Exec(args *ExecArgs) {
	input, err := readInput(args.Input)

	if err != nil {
		log.Fatalln("Error reading input:", err)
	}

	session, err := bridge.Start(context.Background(), args.Executable,
		bridge.WithDebugger(args.Debugger),
		bridge.WithSetupCommands(args.Setup...),
		bridge.WithLogger(newLogger(args.Verbose)),
	)

	if err != nil {
		log.Fatalln("Error starting debugger:", err)
	}

	reason, output, err := session.Run(input)

	if closeErr := session.Close(); closeErr != nil {
		log.Println("Error stopping debugger:", closeErr)
	}

	if err != nil {
		log.Fatalln("Error running target:", err)
	}

	log.Printf("%s: %s\n", args.Executable, reason)

	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("%q\n", output)
		return
	}

	_, err = os.Stdout.Write(output)

	if err != nil {
		log.Fatalln("Error writing output:", err)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}
