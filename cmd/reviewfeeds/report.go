package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/summary"
)

func renderReport(report domain.RunReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	published := "not published"
	if report.Published {
		published = "published"
	}
	tw.SetTitle(fmt.Sprintf("%s: fetched %d, reviews %d, pending %d, marked %d, state %d",
		published, report.Fetched, report.Reviews, report.Pending, report.NewlyAdded, report.StateSize))
	tw.AppendHeader(table.Row{"Platform", "Published", "Rejected", "Passthrough", "Summarized", "Truncated"})

	for _, p := range report.Platforms {
		tw.AppendRow(table.Row{
			p.Tag,
			strconv.Itoa(len(p.Published)),
			strconv.Itoa(len(p.Rejected)),
			strconv.Itoa(p.Summaries[string(summary.ModePassthrough)]),
			strconv.Itoa(p.Summaries[string(summary.ModeSummarized)]),
			strconv.Itoa(p.Summaries[string(summary.ModeTruncated)]),
		})
	}

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}}
	for i := 2; i <= 6; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
