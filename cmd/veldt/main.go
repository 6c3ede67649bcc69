package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"

	"github.com/veldtwm/veldt/internal/api"
	"github.com/veldtwm/veldt/internal/app"
	"github.com/veldtwm/veldt/internal/build"
	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/config"
	"github.com/veldtwm/veldt/internal/core"
	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
	"github.com/veldtwm/veldt/internal/screen"
	"github.com/veldtwm/veldt/internal/wm"
	"github.com/veldtwm/veldt/internal/x11"
	"github.com/veldtwm/veldt/pkg/sutureext"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".veldt.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}
			if err := config.Normalize(store); err != nil {
				return err
			}
			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}

			conn, err := x11.Connect(cfg.Display)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Acquire(); err != nil {
				return err
			}
			if err := conn.Announce("veldt"); err != nil {
				return err
			}

			pstore := x11.NewStore(conn)
			w, h := conn.RootGeometry()
			reg := screen.NewRegistry(screen.Options{
				Store:    pstore,
				Root:     conn.Root(),
				Geometry: geom.Rect{W: w, H: h},
				Desktops: cfg.Desktops,
				Names:    cfg.DesktopNames,
			})

			mgr := wm.NewManager(0, x11.NewServer(conn), hints.NewCodec(pstore), wm.NopDecor{}, reg)
			reg.SetStrutSource(func(desktop uint32) []geom.Strut {
				var struts []geom.Strut
				for _, c := range mgr.Table().All() {
					if s := c.Strut(); !s.Zero() &&
						(c.Desktop() == desktop || c.Desktop() == hints.AllDesktops) {
						struts = append(struts, s)
					}
				}
				return struts
			})

			var cache *wm.Cache
			if cfg.CacheFile != "" {
				cache, err = wm.OpenCache(cfg.CacheFile)
				if err != nil {
					slog.Warn("Failed to open state cache", "path", cfg.CacheFile, "error", err)
				} else {
					mgr.SetCache(cache)
				}
			}

			app.ApplyRules(mgr, cfg.Rules)

			pump := x11.NewPump(conn, mgr, reg)
			if err := pump.Scan(); err != nil {
				return err
			}

			address := core.Address(options.Host, options.Port)
			router := api.NewRouter(pump, mgr.Table(), reg)
			host, port := core.SplitAddress(address)
			slog.Info("Serving HTTP API", "host", host, "port", port)

			super := sutureext.NewSimple("veldt")
			sutureext.Add(super, sutureext.NewServiceFunc("x11.pump", pump.Run))
			sutureext.Add(super, sutureext.NewServiceFunc("http.api", func(ctx context.Context) error {
				return serveHTTP(ctx, address, router)
			}))

			err = super.Serve(ctx)
			if cache != nil {
				if ferr := cache.Flush(); ferr != nil {
					slog.Error("Failed to flush state cache", "error", ferr)
				}
			}
			return err
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func serveHTTP(ctx context.Context, address string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    address,
		Handler: handler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errC := make(chan error, 1)
	go func() { errC <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		srv.Close()
		<-errC
		return ctx.Err()
	case err := <-errC:
		return err
	}
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
