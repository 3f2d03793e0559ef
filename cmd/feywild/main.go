//go:build !js

// Command feywild shows a hex map described by a scene file.
//
//	feywild [flags] scene.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kjkrol/feywild/internal/app"
	"github.com/kjkrol/feywild/internal/platform"
	"github.com/kjkrol/feywild/internal/platform/glfwwin"
	"github.com/kjkrol/feywild/internal/renderer"
	"github.com/kjkrol/feywild/internal/scene"
	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/fgl/gldriver"
	"github.com/kjkrol/feywild/pkg/gfx"
	"github.com/kjkrol/feywild/pkg/hex"
)

func main() {
	var (
		logLevel  = flag.String("log-level", "info", "log level: debug, info, warn or error")
		strict    = flag.Bool("strict", false, "panic when driver errors persist for several frames")
		fps       = flag.Int("fps", 60, "frames per second")
		width     = flag.Int("width", 1280, "window width")
		height    = flag.Int("height", 800, "window height")
		vsync     = flag.Bool("vsync", true, "wait for vertical sync")
		noPreview = flag.Bool("no-preview", false, "hide the pick buffer preview")
		maxEvents = flag.Int("max-events", 0, "handle at most this many input events per frame; 0 handles all")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scene.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "feywild: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fgl.SetLogger(logger)

	if err := run(flag.Arg(0), options{
		strict:    *strict,
		fps:       *fps,
		width:     *width,
		height:    *height,
		vsync:     *vsync,
		noPreview: *noPreview,
		maxEvents: *maxEvents,
	}); err != nil {
		logger.Error("feywild", "err", err)
		os.Exit(1)
	}
}

type options struct {
	strict        bool
	fps           int
	width, height int
	vsync         bool
	noPreview     bool
	maxEvents     int
}

func run(path string, opts options) error {
	s, err := scene.Load(path, scene.WithProgress(os.Stderr))
	if err != nil {
		return err
	}

	wrapper, err := glfwwin.New(platform.WindowConfig{
		Width:  opts.width,
		Height: opts.height,
		Title:  "feywild",
		VSync:  opts.vsync,
	})
	if err != nil {
		return err
	}
	drv, err := gldriver.New()
	if err != nil {
		wrapper.Close()
		return err
	}

	rendererOpts := []renderer.Option{renderer.WithStrictErrors(opts.strict)}
	if opts.noPreview {
		rendererOpts = append(rendererOpts, renderer.WithoutPreview())
	}
	build := func() (*hex.Grid, *hex.TokenManager, error) {
		return s.Build(drv)
	}
	factory := renderer.NewRendererFactory(drv, build, rendererOpts...)
	window, err := gfx.NewWindow(wrapper, factory)
	if err != nil {
		wrapper.Close()
		return err
	}
	defer window.Close()

	reload := func() (*renderer.FrameRenderer, error) {
		next, err := scene.Load(path)
		if err != nil {
			return nil, err
		}
		prev := s
		s = next
		r, err := factory(window)
		if err != nil {
			s = prev
			return nil, err
		}
		window.SetRenderer(r)
		return r.(*renderer.FrameRenderer), nil
	}

	table := app.NewTable(window.Renderer().(*renderer.FrameRenderer), window.Viewport(), window.Stop,
		app.WithReload(reload))
	window.RefreshRate(opts.fps)
	window.Show()
	window.ListenEvents(table.HandleEvent, app.EventStrategy(opts.maxEvents))

	fgl.Logger().Info("feywild: closed", "frames", window.Frames())
	return nil
}
