// Command tally records requested material amounts and recommends the
// container sizes that cover them.
package main

import "github.com/mesh-intelligence/tally/internal/cli"

func main() {
	cli.Execute()
}
