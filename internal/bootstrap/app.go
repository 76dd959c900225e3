package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pdf2docx/internal/convert"
	"pdf2docx/internal/docx"
	"pdf2docx/internal/extract"
	"pdf2docx/internal/services/health"
	"pdf2docx/internal/shared/config"
	"pdf2docx/internal/shared/server"
	"pdf2docx/internal/shared/storage/scratch"
	"pdf2docx/internal/shared/telemetry"
	"pdf2docx/internal/uploads"
)

// App holds shared dependencies and the routed engine.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	Scratch        *scratch.Dir
	Receiver       *uploads.Receiver
	Extractor      extract.Extractor
	Builder        *docx.Builder
	ConvertService *convert.Service
	ConvertHandler *convert.Handler
	Health         *health.Service
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	dir, err := buildScratch(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Scratch: dir,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		ConvertHandler: app.ConvertHandler,
		Health:         app.Health,
	})

	return app, nil
}

func buildScratch(cfg config.Config) (*scratch.Dir, error) {
	root := strings.TrimSpace(cfg.ScratchDir)
	if root == "" {
		root = config.DefaultScratchDir
	}
	dir := scratch.NewOS(root)
	if err := dir.Ensure(); err != nil {
		return nil, fmt.Errorf("scratch dir %q: %w", root, err)
	}
	telemetry.Debug("bootstrap.scratch_ready", map[string]any{"dir": root})
	return dir, nil
}

func buildServices(app *App) {
	app.Receiver = uploads.NewReceiver(uploads.Config{
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}, app.Scratch, time.Now)
	app.Extractor = extract.NewPDFExtractor(app.Config.ConvertTimeout)
	app.Builder = docx.NewBuilder()
	app.ConvertService = convert.NewService(convert.Config{}, app.Extractor, app.Builder)
	app.ConvertHandler = convert.NewHandler(app.Receiver, app.ConvertService)
	app.Health = health.NewService(app.Scratch)
}
