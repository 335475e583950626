package cli

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mchmarny/ucdash/pkg/dashboard"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverCORSMaxAge          = 300

	portFlagName      = "port"
	noBrowserFlagName = "no-browser"
)

//go:embed assets/* templates/*
var embedFS embed.FS

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local dashboard server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  portFlagName,
				Usage: "Port on which the server will listen (default: from config, 8080)",
			},
			&cli.BoolFlag{
				Name:    noBrowserFlagName,
				Aliases: []string{"nb"},
				Usage:   "Do not open browser automatically",
			},
			newAssetsFlag(),
		},
	}
}

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)

	port := app.Port
	if cmd.IsSet(portFlagName) {
		port = int(cmd.Int(portFlagName))
	}
	address := fmt.Sprintf("127.0.0.1:%d", port)

	src, err := openSource(ctx, app)
	if err != nil {
		return err
	}

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(src, dashboard.Options{AssetsDir: assetsDir(cmd, app)}),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := fmt.Sprintf("http://%s", address)
	slog.Info("server started", "address", url, "source", app.Config.Source)

	if !cmd.Bool(noBrowserFlagName) {
		openBrowser(url)
	}

	return runServer(ctx, s)
}

// runServer serves until ctx is done, then shuts s down gracefully.
func runServer(ctx context.Context, s *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "error starting server")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
		defer cancel()

		slog.Info("server shutting down")
		if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "error shutting down server")
		}
		return nil
	})

	return g.Wait()
}

func makeRouter(src data.Source, opt dashboard.Options) http.Handler {
	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(embedFS, "templates/*.html"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(embedFS)))
	r.Get("/favicon.ico", faviconHandler)
	r.Get("/healthz", healthHandler)

	// Views
	r.Get("/", homeRedirectHandler)
	r.Get("/page/{page}", pageViewHandler(tmpl, src, opt))

	// Local files
	r.Get("/files/milestones", milestonesFileHandler(opt.AssetsDir))
	r.Get("/files/roadmap", roadmapFileHandler(opt.AssetsDir))

	// Data API
	r.Route("/data", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         serverCORSMaxAge,
		}))
		r.Get("/scores", scoresAPIHandler(src))
		r.Get("/reconciliation", reconciliationAPIHandler(src))
		r.Get("/allocation", allocationAPIHandler(src, opt))
		r.Get("/view", viewAPIHandler(src, opt))
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func openBrowser(url string) {
	var cmd string
	args := make([]string, 0, 1)

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
	case "linux":
		cmd = "xdg-open"
	default: // windows
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	}

	args = append(args, url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		slog.Error("failed to open browser", "error", err)
	}
}
