package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/keyosd/internal/config"
	"github.com/jmylchreest/keyosd/internal/keycode"
	"github.com/jmylchreest/keyosd/internal/layout"
	"github.com/jmylchreest/keyosd/internal/render"
)

// Screen size assumed when estimating the rendered overlay size; outputs
// are not queried during a check.
const (
	checkScreenWidth  = 1920
	checkScreenHeight = 1080
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and print layout diagnostics",
	Long: `check loads and validates the configuration file, then reports how
each key's label would fit its bounding box and summarizes the overlay
settings. Exits non-zero if the configuration is invalid.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	setupLogger()
	path := configPath()

	fmt.Printf("Performing configuration check for %q...\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	model, err := layout.FromConfig(cfg, keycode.Load())
	if err != nil {
		return err
	}
	fmt.Println("Basic validation (overlaps, duplicates, positive dimensions) passed.")

	engine := render.NewEngine(model, logger)

	fmt.Println("\nKey information (layout units from TOML, text fit simulated):")
	fmt.Printf("%-20s | %-26s | %-8s | %-10s | %-20s\n",
		"Label", "Bounding Box (L,T,R,B)", "Keycode", "Font Scale", "Fitted Label")
	fmt.Printf("%-20s-+-%-26s-+-%-8s-+-%-10s-+-%-20s\n",
		dashes(20), dashes(26), dashes(8), dashes(10), dashes(20))

	for i := range model.Keys {
		k := &model.Keys[i]
		bbox := fmt.Sprintf("%.1f,%.1f, %.1f,%.1f",
			k.Left, k.Top, k.Left+k.Width, k.Top+k.Height)
		code := "unmapped"
		if k.Mapped() {
			code = fmt.Sprintf("%d", k.Code)
		}

		fitted, finalSize := engine.SimulateLabel(k.Label, k.Width, k.Height, k.TextSize)
		scale := 1.0
		if k.TextSize > 0 {
			scale = finalSize / k.TextSize
		}
		display := ""
		if fitted != k.Label {
			display = fitted
		}
		fmt.Printf("%-20s | %-26s | %-8s | %-10.2f | %-20s\n", k.Label, bbox, code, scale, display)
	}

	printOverlaySummary(cfg, model)

	fmt.Println("\nConfiguration check finished.")
	return nil
}

func printOverlaySummary(cfg *config.Config, model *layout.Model) {
	o := &cfg.Overlay

	fmt.Println("\nOverlay configuration:")
	screen := o.Screen
	if screen == "" {
		screen = "compositor default"
	}
	fmt.Printf("  Screen:               %s\n", screen)
	fmt.Printf("  Position:             %s\n", model.Placement.Position)
	fmt.Printf("  Size width:           %s\n",
		dimString(model.Placement.Width, model.Placement.WidthSet, "derived from height/layout"))
	fmt.Printf("  Size height:          %s\n",
		dimString(model.Placement.Height, model.Placement.HeightSet, "derived from width/layout"))
	fmt.Printf("  Margins (T,R,B,L):    %d, %d, %d, %d\n",
		o.MarginTop, o.MarginRight, o.MarginBottom, o.MarginLeft)

	printColor("Background inactive", o.BackgroundColorInactive)
	printColor("Background active", o.BackgroundColorActive)
	printColor("Default key background", o.DefaultKeyBackgroundColor)
	printColor("Default key text", o.DefaultKeyTextColor)
	printColor("Default key outline", o.DefaultKeyOutlineColor)
	printColor("Active key background", o.ActiveKeyBackgroundColor)
	printColor("Active key text", o.ActiveKeyTextColor)

	w, h := model.SurfaceSize(checkScreenWidth, checkScreenHeight)
	bytes := uint64(w) * uint64(h) * 4 * 2 // double-buffered BGRA
	fmt.Printf("\nAt a %dx%d screen the overlay would be %dx%d (buffer pool %s).\n",
		checkScreenWidth, checkScreenHeight, w, h, humanize.IBytes(bytes))
}

func dimString(d config.Dimension, set bool, unset string) string {
	switch {
	case !set:
		return unset
	case d.Pixels > 0:
		return fmt.Sprintf("%dpx", d.Pixels)
	default:
		return fmt.Sprintf("%.0f%% of screen", d.Ratio*100)
	}
}

func printColor(label, value string) {
	c, err := config.ParseColor(value)
	if err != nil {
		fmt.Printf("  %-21s %s (error: %v)\n", label+":", value, err)
		return
	}
	fmt.Printf("  %-21s %s (R:%d G:%d B:%d A:%d)\n", label+":", value, c.R, c.G, c.B, c.A)
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
