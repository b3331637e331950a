package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"jarvis/internal/ipc"
)

func main() {
	socketPath := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: jarvis-ctl [--socket PATH] <trigger|say TEXT|transcribe FILE|read-full|dictate>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0]}
	if len(args) > 1 {
		msg.Arg = args[1]
	}

	if err := ipc.SendCommand(*socketPath, msg); err != nil {
		fmt.Fprintln(os.Stderr, "jarvis-daemon not running:", err)
		os.Exit(1)
	}
}
