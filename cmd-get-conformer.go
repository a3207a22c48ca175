package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rpcpool/pubchem-faithful/sdfindex"
)

func newCmd_GetConformer() *cli.Command {
	var rootDir, indexDir, confID string

	return &cli.Command{
		Name:        "get-conformer",
		Usage:       "Print one conformer record's bytes given its conformer-id.",
		Description: "Looks up --confid in the conformer-id index and prints the exact bytes of its SDF record, or the literal NOT FOUND.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Required: true, Destination: &rootDir, Usage: "directory containing the SDF corpus"},
			&cli.StringFlag{Name: "index", Required: true, Destination: &indexDir, Usage: "directory holding a previously built index"},
			&cli.StringFlag{Name: "confid", Required: true, Destination: &confID, Usage: "conformer-id string"},
		},
		Action: func(c *cli.Context) error {
			h, err := sdfindex.OpenIndex(indexDir)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer h.Close()

			hit, ok, err := h.GetConformerByConformerID(confID)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if !ok {
				fmt.Println("NOT FOUND")
				return nil
			}

			body, err := h.ReadSegment(rootDir, hit.Locator)
			if err != nil {
				return cli.Exit(err, 1)
			}
			_, err = c.App.Writer.Write(body)
			return err
		},
	}
}
