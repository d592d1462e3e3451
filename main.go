package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/llm-web-summarizer/internal/records"
	"github.com/dtnitsch/llm-web-summarizer/internal/summarize"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lws",
		Usage: "Fetch web pages and produce LLM summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "summarize",
				Usage:     "Fetch a URL and print its summary",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Page URL to summarize (or pass it as the first argument)",
					},
					&cli.BoolFlag{
						Name:  "force-fetch",
						Usage: "Ignore stored summaries and cached pages, refetch the URL",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Token budget per content chunk",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent chunk summarizers",
					},
					&cli.StringFlag{
						Name:  "timeout",
						Usage: "Overall deadline for the run, e.g. 2m",
					},
				},
				Action: summarize.SummarizeAction,
			},
			{
				Name:  "history",
				Usage: "List stored summaries, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum number of records to show",
					},
				},
				Action: records.HistoryAction,
			},
			{
				Name:  "read",
				Usage: "Print one stored summary in full",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Look up the summary by page URL",
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Look up the summary by record ID",
					},
				},
				Action: records.ReadAction,
			},
			{
				Name:  "delete",
				Usage: "Delete one stored summary",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Delete the summary for this page URL",
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Delete the summary with this record ID",
					},
				},
				Action: records.DeleteAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
