package main

import (
	"log"
	"os"
	"strings"

	"github.com/nvnieuwk/svtoolbox/svtoolbox_api"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	vcfFlag := &cli.StringFlag{
		Name:     "vcf",
		Aliases:  []string{"i", "input"},
		Usage:    "The input VCF file (plain, gzip or bgzip), use - for stdin",
		Required: true,
		Category: "Required",
	}

	app := &cli.App{
		Name:            "svtoolbox",
		Usage:           "Convert and validate structural variant VCF files",
		HideHelpCommand: true,
		Version:         "0.1.0dev",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Configuration file (YAML) with the tolerance, placeholders and threads to use",
				Category: "Optional",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "The location of the output file, defaults to stdout",
				Category: "Optional",
			},
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Log debug messages to stderr",
				Category: "Optional",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "create-bedpe",
				Aliases: []string{"bedpe"},
				Usage:   "Convert the variants to BEDPE",
				Flags: []cli.Flag{
					vcfFlag,
					&cli.StringFlag{
						Name:     "include_fields",
						Aliases:  []string{"include-fields", "f"},
						Usage:    "Comma separated INFO fields to add as extra columns",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					return run(Cctx, func(config *svtoolbox_api.Config, out *svtoolbox_api.Output, logger *zap.Logger) error {
						var includeFields []string
						if fields := Cctx.String("include_fields"); fields != "" {
							includeFields = strings.Split(fields, ",")
						}
						return svtoolbox_api.CreateBedpe(Cctx.String("vcf"), includeFields, config, out, logger)
					})
				},
			},
			{
				Name:    "create-contigs-fastq",
				Aliases: []string{"fastq"},
				Usage:   "Write the assembled contigs of the variants as FASTQ",
				Flags:   []cli.Flag{vcfFlag},
				Action: func(Cctx *cli.Context) error {
					return run(Cctx, func(config *svtoolbox_api.Config, out *svtoolbox_api.Output, logger *zap.Logger) error {
						return svtoolbox_api.CreateContigsFastq(Cctx.String("vcf"), config, out, logger)
					})
				},
			},
			{
				Name:    "validate-variants",
				Aliases: []string{"annotate"},
				Usage:   "Flag the variants that are supported by the breakpoints of their aligned contigs",
				Flags: []cli.Flag{
					vcfFlag,
					&cli.StringFlag{
						Name:     "bam",
						Aliases:  []string{"b"},
						Usage:    "The BAM (or SAM) file with the alignments of the contigs, named after the variant IDs",
						Required: true,
						Category: "Required",
					},
					&cli.IntFlag{
						Name:     "tolerance",
						Aliases:  []string{"t"},
						Usage:    "The maximum distance in bases between a contig breakpoint and a variant breakpoint",
						Category: "Optional",
					},
					&cli.IntFlag{
						Name:     "threads",
						Usage:    "The amount of variants to validate at the same time, defaults to the amount of CPUs",
						Category: "Optional",
					},
				},
				Action: func(Cctx *cli.Context) error {
					return run(Cctx, func(config *svtoolbox_api.Config, out *svtoolbox_api.Output, logger *zap.Logger) error {
						if Cctx.IsSet("tolerance") {
							config.Tolerance = Cctx.Int("tolerance")
						}
						if Cctx.IsSet("threads") {
							config.Threads = Cctx.Int("threads")
						}
						return svtoolbox_api.ValidateVariants(Cctx.Context, Cctx.String("vcf"), Cctx.String("bam"), config, out, logger)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(os.Stderr, "", 0).Fatal(err)
	}
}

// Set up the config, logger and output of a command and run it
func run(Cctx *cli.Context, command func(*svtoolbox_api.Config, *svtoolbox_api.Output, *zap.Logger) error) error {
	logger, err := newLogger(Cctx.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	config, err := svtoolbox_api.ReadConfig(Cctx.String("config"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	out, err := svtoolbox_api.OpenOutput(Cctx.String("output"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := command(config, out, logger); err != nil {
		out.Close()
		return cli.Exit(err, 1)
	}
	if err := out.Close(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

// Create the logger writing to stderr
func newLogger(verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.OutputPaths = []string{"stderr"}
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zapConfig.Build()
}
