// allure-history inspects the cross-run history file of a results
// directory and prints a per-identity trend summary.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v2"

	allure "github.com/apiprobe/allure-reporter"
	"github.com/apiprobe/allure-reporter/history"
)

func main() {
	app := cli.NewApp()
	app.Name = "allure-history"
	app.Version = allure.Version
	app.Usage = "Inspect the test history of an Allure results directory"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "results-dir",
			Value:   allure.DefaultResultsDir,
			EnvVars: []string{"APIPROBE_ALLURE_RESULTS_DIR"},
			Usage:   "Results directory containing history/history.json",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		if history.IsCorruptError(err) {
			log.Crit("History file is corrupt; delete it to start over", "message", err)
		}
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	store := history.NewStore(ctx.String("results-dir"), 0)
	hist, err := store.Load()
	if err != nil {
		return err
	}
	if len(hist) == 0 {
		fmt.Println("No history recorded yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Test History")
	t.AppendHeader(table.Row{
		"Identity", "Entries", "Passed", "Failed", "Broken", "Latest",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Entries", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Broken", Align: text.AlignRight},
	})

	for id, entry := range hist {
		latest := "-"
		if len(entry.Items) > 0 {
			latest = string(entry.Items[0].Status)
		}
		t.AppendRow(table.Row{
			shortID(id),
			len(entry.Items),
			entry.Statistic.Passed,
			entry.Statistic.Failed,
			entry.Statistic.Broken,
			latest,
		})
	}

	t.Render()
	return nil
}

// shortID abbreviates a history identity for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
