package main

import (
	"standings/cmd/standings/commands"
	"standings/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
