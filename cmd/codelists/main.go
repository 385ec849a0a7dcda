// Command codelists imports code list YAML files into the database. Without
// -dir the lists bundled with the service are imported.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/iati-publisher/internal/adapter/codelistfile"
	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	codelistrepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/codelist"
	"github.com/heartmarshall/iati-publisher/internal/app"
	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
)

func main() {
	dir := flag.String("dir", "", "directory of code list YAML files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	var fsys fs.FS = codelistfile.Bundled()
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	items, err := codelistfile.Load(fsys)
	if err != nil {
		logger.Error("load code lists", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	n, err := codelist.NewService(logger, codelistrepo.New(pool)).Import(ctx, items)
	if err != nil {
		logger.Error("import code lists", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("code lists imported", slog.Int("items", n))
}
