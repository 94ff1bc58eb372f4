package main

import (
	"github.com/awused/spanwall/ipc"
	"github.com/urfave/cli/v2"
)

func statusCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "status"
	cmd.Usage = "Ask the running daemon for its status"
	cmd.Before = beforeFunc

	cmd.Action = statusAction

	return cmd
}

func statusAction(c *cli.Context) error {
	client := ipc.NewClient(conf.Socket)
	defer client.Close()

	st, err := client.Status(ctxOf(c))
	checkErr(err)

	printJSON(st)
	return nil
}
