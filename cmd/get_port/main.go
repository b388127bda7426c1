package main

import (
	"context"
	"os"

	"pkt.systems/seqrun/internal/cli"
	"pkt.systems/seqrun/internal/logging"
)

func main() {
	logging.Init("get_port")
	os.Exit(cli.Execute(context.Background(), cli.NewGetPortCommand(cli.Stdio()), os.Args[1:]))
}
