package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yashubustudio/cityresolver/cityresolver"
)

func newEnrichCommand(opts *globalOptions) *cobra.Command {
	var (
		ov         overrides
		outputPath string
	)
	cmd := &cobra.Command{
		Use:   "enrich [FILE]",
		Short: "Fill the city column of a CSV/TSV/XLSX table",
		Long: `Reads a table with a header row, resolves the message column and writes the
city column back. The input file is rewritten in place unless --output is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := ""
			if len(args) == 1 {
				inputPath = args[0]
			}
			if strings.TrimSpace(inputPath) == "" {
				var err error
				inputPath, err = promptPath(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			cfg, err := loadConfig(cmd, opts, &ov)
			if err != nil {
				return err
			}
			logger := newLogger(opts.debug)
			return runEnrich(cmd, cfg, logger, inputPath, strings.TrimSpace(outputPath))
		},
	}
	bindOverrides(cmd, &ov)
	cmd.Flags().StringVar(&ov.messageColumn, "message-column", "", "Column name or #index holding the messages")
	cmd.Flags().StringVar(&ov.cityColumn, "city-column", "", "Column name or #index receiving the city (appended when missing)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the enriched table here instead of overwriting the input")
	return cmd
}

func runEnrich(cmd *cobra.Command, cfg cityresolver.Config, logger zerolog.Logger, inputPath, outputPath string) error {
	ctx := cmd.Context()
	svc, closeFn, err := openService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	t, err := cityresolver.ReadTable(inputPath, cityresolver.TableOptions{
		MessageColumn: cfg.Columns.Message,
		CityColumn:    cfg.Columns.City,
	})
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	if len(t.Rows) == 0 {
		return errors.New("input file does not contain any rows")
	}
	logger.Info().
		Str("file", filepath.Base(inputPath)).
		Int("rows", len(t.Rows)).
		Str("message_column", t.Header[t.MessageColumn]).
		Str("city_column", t.Header[t.CityColumn]).
		Msg("table loaded")

	stats, err := svc.EnrichTable(ctx, t, progressLogger(logger))
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = inputPath
	} else if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := cityresolver.WriteTable(outputPath, t); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Результаты сохранены в файл %s\n", outputPath)
	renderStats(out, stats)
	return nil
}

// promptPath asks for the input file interactively.
func promptPath(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Введите путь к файлу: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read path: %w", err)
	}
	path := strings.Trim(strings.TrimSpace(line), `"'`)
	if path == "" {
		return "", errors.New("no input file given")
	}
	return path, nil
}

// progressLogger reports every tenth of the run.
func progressLogger(logger zerolog.Logger) cityresolver.ProgressFunc {
	return func(done, total int) {
		step := total / 10
		if step == 0 {
			step = 1
		}
		if done%step == 0 || done == total {
			logger.Info().Int("done", done).Int("total", total).Msg("resolving")
		}
	}
}

func renderStats(out io.Writer, stats cityresolver.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Этап", "Строк"})
	for _, stage := range cityresolver.Stages {
		if n := stats.ByStage[stage]; n > 0 {
			t.AppendRow(table.Row{stage, n})
		}
	}
	if stats.Failed > 0 {
		t.AppendRow(table.Row{"error", stats.Failed})
	}
	t.AppendFooter(table.Row{"всего", stats.Total})
	t.Render()
}
