package main

import (
	"context"
	"os"

	"pkt.systems/seqrun/internal/cli"
	"pkt.systems/seqrun/internal/logging"
)

func main() {
	logging.Init("my_cat")
	os.Exit(cli.Execute(context.Background(), cli.NewCatCommand(cli.Stdio()), os.Args[1:]))
}
