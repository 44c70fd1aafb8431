package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/cityresolver/cityresolver"
)

type uiState struct {
	engine *engine
	logs   *logCapture

	w             fyne.Window
	input         *widget.Entry
	log           *widget.Entry
	status        *widget.Label
	source        *widget.Label
	progress      *widget.ProgressBar
	configSummary *widget.Label
	resTbl        *widget.Table
	columns       []tableColumn
	rows          []cityresolver.ResultRow
	statusBind    binding.String
	progressBind  binding.Float

	// table is set while a loaded file, rather than the input box, is the source.
	table     *cityresolver.Table
	tablePath string

	resolveBtn *widget.Button
	saveBtn    *widget.Button
	loadBtn    *widget.Button
	clearBtn   *widget.Button
}

func buildUI(a fyne.App, eng *engine, logs *logCapture, logBind binding.String) *uiState {
	u := &uiState{engine: eng, logs: logs}
	u.w = a.NewWindow("Определение города")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Готово к работе")
	u.progressBind = binding.NewFloat()
	logs.start()

	u.input = widget.NewMultiLineEntry()
	u.input.SetPlaceHolder("Вставьте сообщения (одна строка = одно сообщение)")
	u.input.Wrapping = fyne.TextWrapWord

	u.log = widget.NewEntryWithData(logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("Журнал")
	u.log.Disable()

	u.status = widget.NewLabelWithData(u.statusBind)
	u.source = widget.NewLabel("Источник: поле ввода")
	u.progress = widget.NewProgressBarWithData(u.progressBind)
	u.progress.Hide()
	u.configSummary = widget.NewLabel("")
	u.configSummary.Wrapping = fyne.TextWrapWord

	u.resolveBtn = widget.NewButtonWithIcon("Определить города", theme.ConfirmIcon(), func() { u.onResolve() })
	u.saveBtn = widget.NewButtonWithIcon("Сохранить", theme.DocumentSaveIcon(), func() { u.onSave() })
	u.loadBtn = widget.NewButtonWithIcon("Открыть файл", theme.FolderOpenIcon(), func() { u.onLoadFile() })
	u.clearBtn = widget.NewButtonWithIcon("Очистить", theme.ContentClearIcon(), func() { u.onClear() })
	settingsBtn := widget.NewButtonWithIcon("Настройки", theme.SettingsIcon(), func() { u.openSettings() })

	u.columns = resultColumns()
	u.resTbl = widget.NewTable(
		func() (int, int) {
			return len(u.rows) + 1, len(u.columns)
		},
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Truncation = fyne.TextTruncateEllipsis
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Col >= len(u.columns) {
				lbl.SetText("")
				return
			}
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(u.columns[id.Col].Title)
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			rowIdx := id.Row - 1
			if rowIdx >= len(u.rows) {
				lbl.SetText("")
				return
			}
			lbl.SetText(u.columns[id.Col].Render(rowIdx, u.rows[rowIdx]))
		},
	)
	u.resTbl.OnSelected = func(id widget.TableCellID) {
		if id.Row <= 0 || id.Row-1 >= len(u.rows) {
			return
		}
		dialog.ShowInformation("Подробности", rowDetails(u.rows[id.Row-1]), u.w)
		u.resTbl.UnselectAll()
	}
	for i, col := range u.columns {
		u.resTbl.SetColumnWidth(i, col.Width)
	}

	controls := container.NewGridWithColumns(3, u.resolveBtn, u.saveBtn, settingsBtn)
	fileControls := container.NewGridWithColumns(2, u.loadBtn, u.clearBtn)
	left := container.NewVBox(
		widget.NewLabelWithStyle("Сообщения", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewMax(u.input),
		u.source,
		controls,
		fileControls,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Прогресс", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.progress,
		u.status,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Настройки", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.configSummary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Журнал", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewMax(u.log),
	)

	split := container.NewHSplit(left, u.resTbl)
	split.Offset = 0.35
	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1180, 760))
	u.updateConfigSummary()
	return u
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		for _, btn := range []*widget.Button{u.resolveBtn, u.saveBtn, u.loadBtn, u.clearBtn} {
			if b {
				btn.Disable()
			} else {
				btn.Enable()
			}
		}
	})
}

func (u *uiState) appendLog(msg string) {
	line := fmt.Sprintf("%s %s\n", time.Now().Format(time.TimeOnly), msg)
	_, _ = u.logs.Write([]byte(line))
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) updateConfigSummary() {
	u.configSummary.SetText(configSummary(u.engine.config(), u.engine.catalog()))
}

func (u *uiState) onResolve() {
	var texts []string
	if u.table != nil {
		texts = u.table.Messages()
	} else {
		texts = cityresolver.ParseMessages(u.input.Text)
	}
	if len(texts) == 0 {
		dialog.ShowInformation("Информация", "Нет сообщений для обработки", u.w)
		return
	}
	total := len(texts)
	fyne.Do(func() {
		u.progress.Min = 0
		u.progress.Max = float64(total)
		u.progress.Show()
	})
	_ = u.progressBind.Set(0)
	u.setStatus("Обработка...")
	u.setBusy(true)
	u.appendLog(fmt.Sprintf("Начало обработки (%d сообщений)", total))
	start := time.Now()
	svc := u.engine.service()
	table := u.table

	go func() {
		rows, err := svc.ResolveAll(context.Background(), texts, func(done, total int) {
			_ = u.progressBind.Set(float64(done))
			u.setStatus(fmt.Sprintf("Обработка %d/%d", done, total))
		})
		u.setBusy(false)
		fyne.Do(func() { u.progress.Hide() })
		if err != nil {
			fyne.Do(func() { dialog.ShowError(err, u.w) })
			u.setStatus("Ошибка")
			u.appendLog(fmt.Sprintf("Ошибка: %v", err))
			return
		}
		if table != nil {
			for i, row := range rows {
				table.SetCity(i, row.Resolution.City)
			}
		}
		summary := statsSummary(cityresolver.Summarize(rows), time.Since(start))
		fyne.Do(func() {
			u.rows = rows
			u.resTbl.Refresh()
		})
		u.setStatus(summary)
		u.appendLog(summary)
	}()
}

func (u *uiState) onSave() {
	if len(u.rows) == 0 {
		dialog.ShowInformation("Информация", "Нет результатов для сохранения", u.w)
		return
	}
	table := u.table
	name := "cities.csv"
	if table != nil {
		name = filepath.Base(u.tablePath)
	} else {
		table = pastedTable(u.rows)
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		// The dialog leaves an empty file behind, which excelize cannot open.
		if info, statErr := os.Stat(path); statErr == nil && info.Size() == 0 {
			_ = os.Remove(path)
		}
		if err := cityresolver.WriteTable(path, table); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.appendLog(fmt.Sprintf("Результаты сохранены в файл %s (%d строк)", filepath.Base(path), len(table.Rows)))
	}, u.w)
	fd.SetFileName(name)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv", ".xlsx"}))
	fd.Show()
}

func (u *uiState) onLoadFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		if strings.EqualFold(filepath.Ext(path), ".txt") {
			data, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				dialog.ShowError(err, u.w)
				return
			}
			u.useInput(strings.Join(cityresolver.ParseMessages(string(data)), "\n"))
			u.appendLog(fmt.Sprintf("Файл загружен: %s", filepath.Base(path)))
			return
		}
		_ = rc.Close()
		u.chooseColumns(path)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv", ".xlsx", ".txt"}))
	fd.Show()
}

// chooseColumns asks which column holds the messages, then loads the table.
func (u *uiState) chooseColumns(path string) {
	meta, err := cityresolver.ReadTableMetadata(path)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	if len(meta.Columns) == 0 {
		dialog.ShowError(errors.New("в файле нет заголовка"), u.w)
		return
	}
	cfg := u.engine.config()
	choices := columnChoices(meta.Columns)
	options := make([]string, len(choices))
	for i, c := range choices {
		options[i] = c.Label
	}
	preferred := cfg.Columns.Message
	if preferred == "" {
		preferred = meta.Suggested.MessageColumn
	}
	selected := defaultChoice(choices, meta.Columns, preferred)
	sel := widget.NewSelect(options, func(value string) {
		for i, opt := range options {
			if opt == value {
				selected = i
				return
			}
		}
	})
	sel.SetSelected(options[selected])
	content := container.NewVBox(widget.NewLabel("Выберите столбец с сообщениями"), sel)
	dialog.NewCustomConfirm("Выбор столбца", "Загрузить", "Отмена", content, func(ok bool) {
		if !ok {
			return
		}
		t, err := cityresolver.ReadTable(path, cityresolver.TableOptions{
			MessageColumn: choices[selected].Token,
			CityColumn:    cfg.Columns.City,
		})
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.useTable(path, t)
	}, u.w).Show()
}

func (u *uiState) useTable(path string, t *cityresolver.Table) {
	u.table, u.tablePath = t, path
	u.rows = nil
	u.resTbl.Refresh()
	preview := make([]string, 0, len(t.Rows))
	for _, msg := range t.Messages() {
		preview = append(preview, strings.Join(strings.Fields(msg), " "))
	}
	u.input.SetText(strings.Join(preview, "\n"))
	u.input.Disable()
	u.source.SetText(fmt.Sprintf("Источник: %s (%d строк, столбец «%s» → «%s»)",
		filepath.Base(path), len(t.Rows), t.Header[t.MessageColumn], t.Header[t.CityColumn]))
	u.appendLog(fmt.Sprintf("Таблица загружена: %s (%d строк)", filepath.Base(path), len(t.Rows)))
}

func (u *uiState) useInput(text string) {
	u.table, u.tablePath = nil, ""
	u.input.Enable()
	u.input.SetText(text)
	u.source.SetText("Источник: поле ввода")
}

func (u *uiState) onClear() {
	u.useInput("")
	u.rows = nil
	u.resTbl.Refresh()
	u.setStatus("Готово к работе")
}

func (u *uiState) openSettings() {
	cfg := u.engine.config()

	cutoffEntry := widget.NewEntry()
	cutoffEntry.SetText(fmt.Sprintf("%.2f", cfg.Fuzzy.Cutoff))
	workersEntry := widget.NewEntry()
	workersEntry.SetText(strconv.Itoa(cfg.Workers))

	policyLabels := make([]string, len(errorPolicyChoices))
	for i, c := range errorPolicyChoices {
		policyLabels[i] = c.Label
	}
	policySel := widget.NewSelect(policyLabels, nil)
	policySel.SetSelected(errorPolicyLabel(cfg.OnError))

	catalogEntry := widget.NewEntry()
	catalogEntry.SetText(cfg.CatalogPath)
	catalogEntry.SetPlaceHolder("встроенный каталог")
	messageEntry := widget.NewEntry()
	messageEntry.SetText(cfg.Columns.Message)
	messageEntry.SetPlaceHolder("автоопределение")
	cityEntry := widget.NewEntry()
	cityEntry.SetText(cfg.Columns.City)
	cityEntry.SetPlaceHolder("city")

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "Порог нечёткого совпадения", Widget: cutoffEntry},
		{Text: "Потоки", Widget: workersEntry},
		{Text: "При ошибке", Widget: policySel},
		{Text: "Файл каталога", Widget: catalogEntry},
		{Text: "Столбец сообщений", Widget: messageEntry},
		{Text: "Столбец города", Widget: cityEntry},
	}}

	dialog.NewCustomConfirm("Настройки", "OK", "Отмена", form, func(ok bool) {
		if !ok {
			return
		}
		newCfg := cfg
		if v, err := strconv.ParseFloat(strings.ReplaceAll(cutoffEntry.Text, ",", "."), 64); err == nil {
			newCfg.Fuzzy.Cutoff = v
		}
		if v, err := strconv.Atoi(strings.TrimSpace(workersEntry.Text)); err == nil {
			newCfg.Workers = v
		}
		for _, c := range errorPolicyChoices {
			if c.Label == policySel.Selected {
				newCfg.OnError = c.Value
			}
		}
		newCfg.CatalogPath = strings.TrimSpace(catalogEntry.Text)
		newCfg.Columns.Message = strings.TrimSpace(messageEntry.Text)
		newCfg.Columns.City = strings.TrimSpace(cityEntry.Text)
		ensureCatalogFile(newCfg.CatalogPath, u.engine.logger)

		u.setBusy(true)
		go func() {
			err := u.engine.apply(context.Background(), newCfg)
			u.setBusy(false)
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, u.w)
					return
				}
				u.updateConfigSummary()
			})
			if err == nil {
				u.appendLog("Настройки обновлены")
			}
		}()
	}, u.w).Show()
}
