package main

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/rpcpool/pubchem-faithful/sdfindex"
)

func newCmd_Build() *cli.Command {
	var rootDir, indexDir string
	var mapSize int64
	var quiet bool

	return &cli.Command{
		Name:        "build",
		Usage:       "Build (or rebuild) the lookup index for a directory of SDF files.",
		Description: "Walks --root for *.sdf files and writes records, CID/conformer-id indexes, and conformer posting lists into --index.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory containing the SDF corpus",
				Required:    true,
				Destination: &rootDir,
			},
			&cli.StringFlag{
				Name:        "index",
				Usage:       "directory the index is written to (created if absent)",
				Required:    true,
				Destination: &indexDir,
			},
			&cli.Int64Flag{
				Name:        "map-size",
				Usage:       "bbolt mmap size in bytes (clamped to [2^30, 2^40])",
				Destination: &mapSize,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress the progress bar",
				Destination: &quiet,
			},
		},
		Action: func(c *cli.Context) error {
			if err := PathSource(rootDir).MustExistAsDir("--root"); err != nil {
				return cli.Exit(err, 1)
			}

			opts := sdfindex.BuildOptions{MapSize: mapSize}
			var bar *progressbar.ProgressBar
			if !quiet {
				bar = progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("indexing records"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetItsString("record"),
				)
				opts.Progress = bar
			}

			startedAt := time.Now()
			meta, err := sdfindex.BuildIndex(c.Context, rootDir, indexDir, opts)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if bar != nil {
				_ = bar.Finish()
			}

			klog.Infof("build complete in %s: %s files, %s records (%s compound, %s conformer)",
				time.Since(startedAt),
				humanize.Comma(int64(meta.TotalFiles)),
				humanize.Comma(int64(meta.TotalRecords)),
				humanize.Comma(int64(meta.TotalCompoundRecords)),
				humanize.Comma(int64(meta.TotalConformerRecords)),
			)
			return nil
		},
	}
}
