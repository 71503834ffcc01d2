//go:build !statsview

package statsview

import (
	"fmt"
	"io"
)

const Address = ""

// Launch reports that the statsview server was not built in.
func Launch(output io.Writer) {
	fmt.Fprintln(output, "stats server not available: rebuild with -tags statsview")
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
