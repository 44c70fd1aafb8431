package app

import (
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"
	"github.com/rs/zerolog"

	"yashubustudio/cityresolver/cityresolver"
)

// Run loads the configuration, assembles the resolver and starts the desktop UI.
func Run() error {
	logBind := binding.NewString()
	capture := newLogCapture(logBind, 200)
	logger := zerolog.New(zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly},
		zerolog.ConsoleWriter{Out: capture, NoColor: true, TimeFormat: time.TimeOnly},
	)).With().Timestamp().Logger()

	cfg, err := cityresolver.LoadConfig(configPath)
	if err != nil {
		return err
	}
	ensureCatalogFile(cfg.CatalogPath, logger)

	eng, err := openEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, eng, capture, logBind)
	u.w.ShowAndRun()
	return nil
}
