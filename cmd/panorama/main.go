// Command panorama opens a window and shows the tour described by a YAML config.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-pano/engine"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/interaction"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/Carmen-Shannon/oxy-pano/engine/transition"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "panorama:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	// flags default to the environment so they override it
	fs := flag.NewFlagSet("panorama", flag.ContinueOnError)
	configPath := fs.String("config", env.ConfigPath, "tour config file (PANO_CONFIG)")
	debug := fs.Bool("debug", env.Debug, "log at debug level (PANO_LOG_LEVEL=debug)")
	dev := fs.Bool("dev", env.Dev, "human readable log output (PANO_DEV)")
	profile := fs.Bool("profile", false, "log tick and frame rates every second")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logger.NewLogger(*dev, *debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	tour, warnings, err := config.Load(*configPath)
	for _, w := range warnings {
		log.Warnw("tour config", "path", *configPath, "warning", w)
	}
	if err != nil {
		return err
	}
	log.Infow("tour loaded", "path", *configPath, "mode", tour.Mode, "scenes", len(tour.Scenes), "start", tour.Start)

	win, err := window.NewWindow(
		window.WithTitle(tour.Window.Title),
		window.WithSize(tour.Window.Width, tour.Window.Height),
	)
	if err != nil {
		return err
	}
	defer func() { _ = win.Close() }()

	present := renderer.PresentModeVSync
	if tour.Window.VSync != nil && !*tour.Window.VSync {
		present = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithLogger(log),
		renderer.WithPresentMode(present),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	// panoramas and icons get separate pools so a large panorama never delays the icons
	panoramas := loader.NewLoader(
		loader.WithLogger(log),
		loader.WithWorkers(tour.Viewer.Workers),
		loader.WithMaxTextureSize(tour.Viewer.MaxTextureSize),
		loader.WithExposure(tour.Viewer.Exposure),
		loader.WithRequireHDR(tour.Mode == config.ModeHDR),
	)
	defer panoramas.Close()
	iconLoader := loader.NewLoader(
		loader.WithLogger(log),
		loader.WithWorkers(tour.Viewer.Workers),
		loader.WithMaxTextureSize(tour.Viewer.MaxTextureSize),
	)
	defer iconLoader.Close()
	icons := texture.NewCache(iconLoader, texture.WithLogger(log))

	animator := tween.NewAnimator(tween.WithLogger(log))
	loading := loader.NewLoadingManager(
		loader.WithManagerLogger(log),
		loader.WithOnProgress(func(url string, loaded, total int) {
			log.Infow("loading", "url", url, "loaded", loaded, "total", total)
		}),
	)

	ctrl := camera.NewCameraController(camera.WithRotateSpeed(camera.RotateSpeedForFov(tour.Viewer.Fov)))
	cam := camera.NewCamera(camera.WithFov(tour.Viewer.Fov), camera.WithController(ctrl))

	sc := scene.NewScene(cam, r, panoramas,
		scene.WithIconCache(icons),
		scene.WithAnimator(animator),
		scene.WithLoadingManager(loading),
		scene.WithLogger(log),
		scene.WithIconScale(mgl32.Vec2{tour.Viewer.IconScale.X, tour.Viewer.IconScale.Y}),
		scene.WithFadeSeconds(tour.Viewer.FadeSeconds),
	)
	transitions := transition.NewManager(sc, tour.Scenes,
		transition.WithLoadingManager(loading),
		transition.WithLogger(log),
	)
	handler := interaction.NewHandler(
		interaction.WithCamera(cam),
		interaction.WithTargets(sc),
		interaction.WithLoading(transitions),
		interaction.WithHotspotCallback(transitions.HandleAction),
		interaction.WithZoomAnimator(animator, interaction.DefaultZoomSeconds),
		interaction.WithLogger(log),
	)

	eng := engine.NewEngine(sc, r,
		engine.WithWindow(win),
		engine.WithInteraction(handler),
		engine.WithAnimator(animator),
		engine.WithLogger(log),
		engine.WithTickRate(float64(tour.Viewer.TickRate)),
		engine.WithProfiling(*profile),
	)

	if err := transitions.Start(tour.Start); err != nil {
		return err
	}
	eng.Run()

	// render loop has stopped, GPU objects can be freed from here
	sc.Release()
	icons.Release()
	log.Infow("bye")
	return nil
}
