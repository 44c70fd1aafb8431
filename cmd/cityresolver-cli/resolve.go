package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"yashubustudio/cityresolver/cityresolver"
)

func newResolveCommand(opts *globalOptions) *cobra.Command {
	var ov overrides
	cmd := &cobra.Command{
		Use:   "resolve [TEXT...]",
		Short: "Resolve messages given as arguments or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := args
			if len(texts) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				texts = cityresolver.ParseMessages(string(data))
			}
			if len(texts) == 0 {
				return errors.New("no messages to resolve")
			}
			cfg, err := loadConfig(cmd, opts, &ov)
			if err != nil {
				return err
			}
			logger := newLogger(opts.debug)
			svc, closeFn, err := openService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := svc.ResolveAll(cmd.Context(), texts, nil)
			if err != nil {
				return err
			}
			renderResults(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	bindOverrides(cmd, &ov)
	return cmd
}

func renderResults(out io.Writer, rows []cityresolver.ResultRow) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Сообщение", "Город", "Этап", "Совпадение", "Оценка"})
	for i, row := range rows {
		res := row.Resolution
		stage := string(res.Stage)
		if row.Err != nil {
			stage = "error: " + row.Err.Error()
		}
		score := ""
		if res.Found() {
			score = fmt.Sprintf("%.3f", res.Score)
		}
		t.AppendRow(table.Row{i + 1, shorten(row.Text, 60), res.City, stage, res.Matched, score})
	}
	t.Render()
}

func shorten(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	return text
}
