package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/rpcpool/pubchem-faithful/sdfindex"
)

func newCmd_ListConformers() *cli.Command {
	var rootDir, indexDir, cidStr string
	var limit int

	return &cli.Command{
		Name:        "list-conformers",
		Usage:       "List conformer ALIDs generated from a compound's CID.",
		Description: "Streams the conformer posting list for --cid, printing one ALID per line, or the literal NOT FOUND if the CID has no known conformers.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Required: true, Destination: &rootDir, Usage: "directory containing the SDF corpus (unused but accepted for symmetry with the other lookup subcommands)"},
			&cli.StringFlag{Name: "index", Required: true, Destination: &indexDir, Usage: "directory holding a previously built index"},
			&cli.StringFlag{Name: "cid", Required: true, Destination: &cidStr, Usage: "compound CID"},
			&cli.IntFlag{Name: "limit", Destination: &limit, Usage: "stop after this many conformers (0 means unlimited)"},
		},
		Action: func(c *cli.Context) error {
			cid, err := strconv.ParseInt(cidStr, 10, 64)
			if err != nil {
				return cli.Exit(fmt.Errorf("--cid must be an integer: %w", err), 1)
			}

			h, err := sdfindex.OpenIndex(indexDir)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer h.Close()

			var printed int
			var any bool
			err = h.IterConformersByCID(cid, func(hit sdfindex.IndexHit) bool {
				any = true
				fmt.Fprintf(c.App.Writer, "%x\n", hit.ALID)
				printed++
				return limit <= 0 || printed < limit
			})
			if err != nil {
				return cli.Exit(err, 1)
			}
			if !any {
				fmt.Println("NOT FOUND")
			}
			return nil
		},
	}
}
