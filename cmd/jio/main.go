// Command jio reads, analyzes, and repairs systemd-journal files.
package main

import (
	"os"

	"github.com/vcaputo/jio/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
