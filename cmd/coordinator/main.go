package main

import (
	"context"
	"os"

	"pkt.systems/seqrun/internal/cli"
	"pkt.systems/seqrun/internal/logging"
)

func main() {
	logging.Init("coordinator")
	os.Exit(cli.Execute(context.Background(), cli.NewCoordinatorCommand(cli.Stdio()), os.Args[1:]))
}
