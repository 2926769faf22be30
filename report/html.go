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
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the record as a markdown document with one table per category.
func Markdown(rec *scorecard.Record) string {
	states := flatten(rec)
	names := comparisonNames(states)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(rec.Metadata.ModelName))
	fmt.Fprintf(&b, "- dataset: %s\n", escape(rec.Metadata.DatasetName))
	fmt.Fprintf(&b, "- project: %s\n", escape(rec.Metadata.ProjectName))
	fmt.Fprintf(&b, "- sample: %s\n", rec.SampleType)
	fmt.Fprintf(&b, "- created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	var categories []string
	byCategory := make(map[string][]flatState)
	for _, fs := range states {
		c := string(fs.State.Category)
		if _, ok := byCategory[c]; !ok {
			categories = append(categories, c)
		}
		byCategory[c] = append(byCategory[c], fs)
	}
	for _, c := range categories {
		fmt.Fprintf(&b, "\n## %s\n\n", escape(c))
		header := append([]string{"Metric", "Result"}, names...)
		writeRow(&b, header)
		sep := make([]string, len(header))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)
		for _, fs := range byCategory[c] {
			row := []string{fs.State.Name, display(fs.State.Result)}
			for _, name := range names {
				row = append(row, orDash(comparisonOf(fs.State, name)))
			}
			writeRow(&b, row)
		}
	}
	return b.String()
}

// MarkdownTable renders a comparison table as a markdown table.
func MarkdownTable(t *scorecard.Table) string {
	var b strings.Builder
	header := append([]string{"Model", "Dataset"}, t.Columns...)
	writeRow(&b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, r := range t.Rows {
		row := []string{r.Model, r.Dataset}
		for _, res := range r.Results {
			row = append(row, res.String())
		}
		writeRow(&b, row)
	}
	return b.String()
}

// HTML renders the record as an HTML fragment.
func HTML(rec *scorecard.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(rec)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escape(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var escaper = strings.NewReplacer("|", `\|`, "\n", " ", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
