package cli

import (
	"fmt"
	"strings"
)

const colWidth = 25

type TargetsArgs struct {
	File string `arg:"-f,--file" help:"Bridgefile with target definitions" default:"bridge.yaml"`
}

func Targets(args *TargetsArgs) {
	bridgefile, _ := loadBridgefile(args.File)

	println("Available targets:")
	for _, target := range bridgefile.Targets {
		printTwoCols(target.Name, target.Description)
	}
}

func printTwoCols(left, right string) {
	lhs := "  " + left
	fmt.Print(lhs)
	if right != "" {
		if len(lhs)+2 < colWidth {
			fmt.Print(strings.Repeat(" ", colWidth-len(lhs)))
		} else {
			fmt.Print("\n" + strings.Repeat(" ", colWidth))
		}
		fmt.Print(right)
	}
	fmt.Print("\n")
}
