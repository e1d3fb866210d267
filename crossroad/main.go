// Command crossroad simulates the traffic light of a single intersection.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/crossroad/crossroad/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
