package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"yashubustudio/cityresolver/cityresolver"
)

type tableColumn struct {
	Title  string
	Width  float32
	Render func(index int, row cityresolver.ResultRow) string
}

func resultColumns() []tableColumn {
	return []tableColumn{
		{Title: "№", Width: 50, Render: func(i int, _ cityresolver.ResultRow) string { return fmt.Sprint(i + 1) }},
		{Title: "Сообщение", Width: 420, Render: func(_ int, r cityresolver.ResultRow) string { return r.Text }},
		{Title: "Город", Width: 170, Render: func(_ int, r cityresolver.ResultRow) string { return r.Resolution.City }},
		{Title: "Этап", Width: 110, Render: func(_ int, r cityresolver.ResultRow) string { return stageLabel(r) }},
		{Title: "Совпадение", Width: 140, Render: func(_ int, r cityresolver.ResultRow) string { return r.Resolution.Matched }},
		{Title: "Оценка", Width: 80, Render: func(_ int, r cityresolver.ResultRow) string { return scoreLabel(r) }},
	}
}

func stageLabel(r cityresolver.ResultRow) string {
	if r.Err != nil {
		return "ошибка"
	}
	return string(r.Resolution.Stage)
}

func scoreLabel(r cityresolver.ResultRow) string {
	if r.Err != nil || !r.Resolution.Found() {
		return ""
	}
	return fmt.Sprintf("%.3f", r.Resolution.Score)
}

func rowDetails(r cityresolver.ResultRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Сообщение:\n%s\n\n", r.Text)
	if r.Err != nil {
		fmt.Fprintf(&b, "Ошибка: %v\n", r.Err)
		return b.String()
	}
	if !r.Resolution.Found() {
		b.WriteString("Город не найден\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Город: %s\nЭтап: %s\nСовпадение: %s\nОценка: %.3f\n",
		r.Resolution.City, r.Resolution.Stage, r.Resolution.Matched, r.Resolution.Score)
	return b.String()
}

func configSummary(cfg cityresolver.Config, catalog *cityresolver.Catalog) string {
	source := cfg.CatalogPath
	if source == "" {
		source = "встроенный"
	}
	cities, aliases := 0, 0
	if catalog != nil {
		cities, aliases = len(catalog.Cities()), len(catalog.Aliases())
	}
	return fmt.Sprintf("Каталог: %s (%d городов, %d синонимов) / Порог: %.2f / Потоки: %d / Ошибки: %s / Анализатор: %s / Кэш: %s",
		source, cities, aliases, cfg.Fuzzy.Cutoff, cfg.Workers, errorPolicyLabel(cfg.OnError),
		cfg.Annotator.Backend, cfg.Cache.Backend)
}

func statsSummary(stats cityresolver.Stats, elapsed time.Duration) string {
	parts := make([]string, 0, len(stats.ByStage))
	for stage, n := range stats.ByStage {
		if stage == cityresolver.StageNone || n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", stage, n))
	}
	sort.Strings(parts)
	line := fmt.Sprintf("Готово: %d строк, найдено %d, ошибок %d (%.1fs)",
		stats.Total, stats.Resolved, stats.Failed, elapsed.Seconds())
	if len(parts) > 0 {
		line += " [" + strings.Join(parts, ", ") + "]"
	}
	return line
}

type columnChoice struct {
	Token string
	Label string
}

// columnChoices lists the header columns as "#N" tokens ReadTable accepts.
func columnChoices(columns []string) []columnChoice {
	out := make([]columnChoice, 0, len(columns))
	for i, name := range columns {
		label := fmt.Sprintf("[%d] %s", i+1, strings.TrimSpace(name))
		if strings.TrimSpace(name) == "" {
			label = fmt.Sprintf("[%d] столбец %d", i+1, i+1)
		}
		out = append(out, columnChoice{Token: fmt.Sprintf("#%d", i+1), Label: label})
	}
	return out
}

// defaultChoice returns the index of the choice matching name, or 0.
func defaultChoice(choices []columnChoice, columns []string, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0
	}
	for i, c := range choices {
		if strings.EqualFold(c.Token, name) {
			return i
		}
		if i < len(columns) && strings.EqualFold(strings.TrimSpace(columns[i]), name) {
			return i
		}
	}
	return 0
}

// pastedTable wraps resolved rows typed into the input box so they can be saved.
func pastedTable(rows []cityresolver.ResultRow) *cityresolver.Table {
	t := &cityresolver.Table{
		Header:        []string{"message", "city"},
		Rows:          make([][]string, len(rows)),
		MessageColumn: 0,
		CityColumn:    1,
	}
	for i, r := range rows {
		t.Rows[i] = []string{r.Text, r.Resolution.City}
	}
	return t
}
