// Package app wires the pieces together: config, layout, input pipeline,
// render engine and wayland session, driven by one select loop. Frames
// are paced by the compositor's callbacks; input events only mark the
// overlay dirty and the next presentable moment repaints it.
package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/keyosd/internal/config"
	"github.com/jmylchreest/keyosd/internal/input"
	"github.com/jmylchreest/keyosd/internal/keycode"
	"github.com/jmylchreest/keyosd/internal/layout"
	"github.com/jmylchreest/keyosd/internal/render"
	"github.com/jmylchreest/keyosd/internal/wayland"
)

const (
	windowTitle      = "Wayland Keyboard OSD"
	surfaceNamespace = "keyosd"
)

// Options is everything the command line hands to Run.
type Options struct {
	ConfigPath  string
	WindowMode  bool
	WindowColor color.NRGBA
	Logger      *slog.Logger
}

// Run starts the overlay and blocks until the context is cancelled, the
// compositor dismisses the surface, or a fatal session error occurs.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger

	table := keycode.Load()
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	model, err := layout.FromConfig(cfg, table)
	if err != nil {
		return err
	}

	pipeline, err := input.OpenPipeline(table, logger)
	if err != nil {
		return fmt.Errorf("failed to enumerate input devices: %w", err)
	}
	defer pipeline.Close()
	state := input.NewState()

	sess, err := wayland.Connect(wayland.Options{
		Logger:      logger,
		WindowMode:  opts.WindowMode,
		Title:       windowTitle,
		Namespace:   surfaceNamespace,
		Screen:      model.Placement.Screen,
		Anchor:      anchorFor(model.Placement.Position),
		Margins:     marginsFor(model.Placement),
		SurfaceSize: model.SurfaceSize,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	if sess.WindowMode() {
		model.Appearance.BackgroundInactive = opts.WindowColor
	}
	engine := render.NewEngine(model, logger)
	fitter := layout.NewFitter(model)

	reloads := make(chan *config.Config, 1)
	watcher, err := config.NewWatcher(opts.ConfigPath, func(c *config.Config) {
		select {
		case reloads <- c:
		default:
			// A newer reload is already queued.
		}
	})
	if err != nil {
		logger.Warn("config watcher unavailable, live reload disabled", "error", err)
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("config watcher failed to start, live reload disabled", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	dirty := true
	present := func() error {
		if !dirty {
			return nil
		}
		presented, err := sess.Present(func(img *image.RGBA) {
			b := img.Bounds()
			engine.Render(img, fitter.ForSize(b.Dx(), b.Dy()), state.Snapshot())
		})
		if err != nil {
			return err
		}
		if presented {
			dirty = false
		}
		return nil
	}

	logger.Info("overlay running", "config", opts.ConfigPath, "keys", len(model.Keys), "devices", pipeline.DeviceCount(), "window_mode", sess.WindowMode())

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil

		case m, ok := <-sess.Events():
			if !ok {
				if err := sess.Err(); err != nil && err != wayland.ErrConnClosed {
					return err
				}
				return nil
			}
			up, err := sess.Dispatch(m)
			if err != nil {
				return err
			}
			if up.Closed {
				logger.Info("surface closed by compositor")
				return nil
			}
			if up.Resized {
				fitter.Invalidate()
				dirty = true
			}
			if up.Configured || up.FrameDone || up.BufferReleased {
				if up.Configured {
					dirty = true
				}
				if err := present(); err != nil {
					return err
				}
				if up.Resized {
					logger.Debug("surface configured", "pool", humanize.IBytes(uint64(sess.PoolSize())))
				}
			}

		case ev := <-pipeline.Events():
			if state.Apply(ev) {
				dirty = true
				if err := present(); err != nil {
					return err
				}
			}

		case newCfg := <-reloads:
			newModel, err := layout.FromConfig(newCfg, table)
			if err != nil {
				logger.Warn("reloaded config rejected, keeping previous layout", "error", err)
				continue
			}
			if sess.WindowMode() {
				newModel.Appearance.BackgroundInactive = opts.WindowColor
			}
			model = newModel
			engine = render.NewEngine(model, logger)
			fitter = layout.NewFitter(model)
			logger.Info("layout reloaded", "keys", len(model.Keys))
			dirty = true
			if err := present(); err != nil {
				return err
			}
		}
	}
}

// anchorFor maps a configured overlay position onto layer surface anchor
// edges. Top and bottom bands stretch across the full width.
func anchorFor(position string) wayland.Anchor {
	switch position {
	case config.PositionTop, config.PositionTopCenter:
		return wayland.AnchorTop | wayland.AnchorLeft | wayland.AnchorRight
	case config.PositionBottom, config.PositionBottomCenter:
		return wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight
	case config.PositionTopLeft:
		return wayland.AnchorTop | wayland.AnchorLeft
	case config.PositionTopRight:
		return wayland.AnchorTop | wayland.AnchorRight
	case config.PositionBottomLeft:
		return wayland.AnchorBottom | wayland.AnchorLeft
	case config.PositionBottomRight:
		return wayland.AnchorBottom | wayland.AnchorRight
	case config.PositionLeft, config.PositionCenterLeft:
		return wayland.AnchorLeft
	case config.PositionRight, config.PositionCenterRight:
		return wayland.AnchorRight
	case config.PositionCenter:
		return wayland.AnchorTop | wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight
	default:
		return wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight
	}
}

func marginsFor(p layout.Placement) [4]int32 {
	return [4]int32{
		int32(p.MarginTop),
		int32(p.MarginRight),
		int32(p.MarginBottom),
		int32(p.MarginLeft),
	}
}
