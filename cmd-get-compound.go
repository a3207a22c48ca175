package main

import (
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/rpcpool/pubchem-faithful/sdfindex"
)

func newCmd_GetCompound() *cli.Command {
	var rootDir, indexDir string
	var cidStr string
	var debug bool

	return &cli.Command{
		Name:        "get-compound",
		Usage:       "Print one compound record's bytes given its CID.",
		Description: "Looks up --cid in the compound index and prints the exact bytes of its SDF record, or the literal NOT FOUND.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Required: true, Destination: &rootDir, Usage: "directory containing the SDF corpus"},
			&cli.StringFlag{Name: "index", Required: true, Destination: &indexDir, Usage: "directory holding a previously built index"},
			&cli.StringFlag{Name: "cid", Required: true, Destination: &cidStr, Usage: "compound CID"},
			&cli.BoolFlag{Name: "debug", Destination: &debug, Usage: "dump the resolved locator to stderr before printing the record"},
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

			hit, ok, err := h.GetCompoundByCID(cid)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if !ok {
				fmt.Println("NOT FOUND")
				return nil
			}
			if debug {
				spew.Fdump(c.App.ErrWriter, hit)
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
