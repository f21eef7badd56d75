package cli

import (
	"github.com/kinematic-ci/gdbbridge/bridgefile"
	"log"
	"os"
	"path/filepath"
)

// loadBridgefile reads and validates path, exiting on failure. It also returns
// the directory relative input files resolve against.
func loadBridgefile(path string) (*bridgefile.Bridgefile, string) {
	bytes, err := os.ReadFile(path)

	if err != nil {
		log.Fatalln("Error opening Bridgefile:", err)
	}

	b, err := bridgefile.Load(bytes)

	if err != nil {
		log.Fatalln("Error parsing Bridgefile", err)
	}

	return b, filepath.Dir(path)
}
