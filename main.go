package main

import (
	"github.com/alexflint/go-arg"
	"github.com/kinematic-ci/gdbbridge/cli"
	"log"
)

func main() {
	type arguments struct {
		Run     *cli.RunArgs     `arg:"subcommand:run" help:"Run every case of a target"`
		Exec    *cli.ExecArgs    `arg:"subcommand:exec" help:"Run a program once with the given input"`
		Targets *cli.TargetsArgs `arg:"subcommand:targets" help:"List targets"`
	}

	log.SetPrefix("[gdb] ")

	args := arguments{}

	p := arg.MustParse(&args)

	switch {
	case args.Run != nil:
		cli.Run(args.Run)
	case args.Exec != nil:
		cli.Exec(args.Exec)
	case args.Targets != nil:
		cli.Targets(args.Targets)
	default:
		p.Fail("invalid subcommand")
	}
}
