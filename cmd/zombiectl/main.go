// Command zombiectl drives the zombie building simulation from a terminal.
package main

import "github.com/DoyleJ11/zombie-dashboard/internal/cli"

func main() {
	cli.Execute()
}
