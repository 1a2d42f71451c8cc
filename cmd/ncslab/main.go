// Command ncslab resolves hyperslab requests and reads and writes the
// variables of container files.
//
// Flags can also be set from the environment: NCSLAB_LOG_LEVEL,
// NCSLAB_OUTPUT.
package main

import (
	"os"

	"github.com/batchatco/go-ncslab/internal"
)

var logger = internal.NewLogger("ncslab")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("failed", "err", err)
		os.Exit(1)
	}
}
