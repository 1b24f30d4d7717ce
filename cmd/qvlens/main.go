// Command qvlens runs the allocation statistics and the QV vs OPOV comparison
// offline, against files on disk, without starting the service.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
