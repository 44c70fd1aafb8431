package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"yashubustudio/cityresolver/cityresolver"
)

func newCatalogCommand(opts *globalOptions) *cobra.Command {
	var (
		exportPath  string
		showAliases bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the city catalog and print its contents",
		Long: `Loads the catalog named by --catalog or config.json (the built-in catalog when
neither is set), validates it and prints a summary. --export writes it as YAML so it
can be edited and passed back with --catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			catalog, err := cityresolver.LoadCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := cfg.CatalogPath
			if source == "" {
				source = "built-in"
			}
			fmt.Fprintf(out, "Каталог: %s\nГородов: %d\nСинонимов: %d\nОтпечаток: %s\n",
				source, len(catalog.Cities()), len(catalog.Aliases()), catalog.Fingerprint())
			if showAliases {
				renderCatalog(out, catalog)
			}
			if p := strings.TrimSpace(exportPath); p != "" {
				if err := cityresolver.SaveCatalogFile(p, catalog); err != nil {
					return fmt.Errorf("export catalog: %w", err)
				}
				fmt.Fprintf(out, "Каталог сохранён в %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the catalog to this YAML file")
	cmd.Flags().BoolVar(&showAliases, "aliases", false, "List the aliases of every city")
	return cmd
}

func renderCatalog(out io.Writer, catalog *cityresolver.Catalog) {
	byCity := make(map[string][]string)
	for _, a := range catalog.Aliases() {
		byCity[a.City] = append(byCity[a.City], a.Key)
	}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Город", "Синонимы"})
	for _, city := range catalog.Cities() {
		t.AppendRow(table.Row{city, strings.Join(byCity[city], ", ")})
	}
	t.Render()
}
