//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
)

// Console writes the record as an aligned text table.
func Console(w io.Writer, rec *scorecard.Record) error {
	states := flatten(rec)
	names := comparisonNames(states)

	fmt.Fprintf(w, "model:   %s\n", rec.Metadata.ModelName)
	fmt.Fprintf(w, "dataset: %s\n", rec.Metadata.DatasetName)
	fmt.Fprintf(w, "project: %s\n", rec.Metadata.ProjectName)
	fmt.Fprintf(w, "sample:  %s\n\n", rec.SampleType)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	header := append([]string{"KEY", "CATEGORY", "RESULT"}, names...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, fs := range states {
		key := fs.State.Key
		if fs.Group != "" {
			key = fs.Group + "." + key
		}
		row := []string{key, string(fs.State.Category), display(fs.State.Result)}
		for _, name := range names {
			row = append(row, orDash(comparisonOf(fs.State, name)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// ConsoleTable writes a comparison table as aligned text.
func ConsoleTable(w io.Writer, t *scorecard.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	header := append([]string{"MODEL", "DATASET"}, t.Columns...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range t.Rows {
		row := []string{r.Model, r.Dataset}
		for _, res := range r.Results {
			row = append(row, res.String())
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
