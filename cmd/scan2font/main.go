// Command scan2font converts a scanned handwriting template page into
// vector glyph outlines. It writes one SVG per glyph plus a glyphs.json
// manifest for the font assembler, and can optionally dump the
// intermediate debug images of the pipeline.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	scan2font "github.com/handfont/scan2font"
	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
	"github.com/handfont/scan2font/opencv"
)

func main() {
	var (
		input     = flag.String("input", "", "scanned template image (png/jpeg/tiff)")
		outDir    = flag.String("out", "glyphs", "output directory")
		page      = flag.Int("page", 0, "template page number")
		charset   = flag.String("charset", "required", "character set: required or all")
		pageSize  = flag.String("page-size", "letter", "template page size: letter or a4")
		dpi       = flag.Int("dpi", 150, "template dpi")
		cells     = flag.Int("cells", 8, "cells per row")
		rows      = flag.Int("rows", 10, "rows per page")
		threshold = flag.Int("threshold", scan2font.DefaultSubtractThreshold, "subtraction threshold (0-255)")
		closeSize = flag.Int("close", 3, "morphology closing kernel size (0 disables)")
		openSize  = flag.Int("open", 2, "morphology opening kernel size (0 disables)")
		minArea   = flag.Int("min-area", scan2font.DefaultMinComponentArea, "minimum component area in pixels")
		backend   = flag.String("backend", "pure", "processing backend: pure or opencv")
		monoline  = flag.Bool("monoline", false, "emit centerline strokes instead of outlines")
		debugDir  = flag.String("debug", "", "directory for intermediate debug images")
		blankOut  = flag.String("render-blank", "", "render the blank template to this PNG and exit")
		verbose   = flag.Bool("v", false, "verbose stage logging")
	)
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := scan2font.TemplateConfig{
		PageSize:    scan2font.PageSize(*pageSize),
		CellsPerRow: *cells,
		RowsPerPage: *rows,
		DPI:         *dpi,
		Guides:      scan2font.DefaultCellGuides(),
	}
	set := scan2font.CharacterSet(*charset)

	if *blankOut != "" {
		if err := renderBlank(cfg, *page, set, *blankOut); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		pterm.Success.Printf("blank template written to %s\n", *blankOut)
		return
	}

	if *input == "" {
		pterm.Error.Println("missing -input (or use -render-blank to produce a printable template)")
		flag.Usage()
		os.Exit(2)
	}

	scan, err := imageutil.LoadImage(*input)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	var b scan2font.Backend
	switch *backend {
	case "opencv":
		b = opencv.NewBackend()
	case "pure":
		b = scan2font.NewPureBackend()
	default:
		pterm.Error.Printf("unknown backend %q\n", *backend)
		os.Exit(2)
	}

	opts := scan2font.DefaultOptions()
	opts.Config = cfg
	opts.CharacterSet = set
	opts.PageNumber = *page
	opts.SubtractThreshold = uint8(*threshold)
	opts.MorphologyCloseSize = *closeSize
	opts.MorphologyOpenSize = *openSize
	opts.MinComponentArea = *minArea

	lastStage := ""
	opts.OnProgress = func(stage string, percent int) error {
		if stage != lastStage {
			lastStage = stage
			pterm.Info.Printf("%-10s %3d%%\n", stage, percent)
		}
		return nil
	}

	pipeline := scan2font.NewPipeline(b)
	result, err := pipeline.ProcessTemplatePage(scan, opts)

	if *debugDir != "" {
		if derr := writeDebugImages(result, *debugDir); derr != nil {
			pterm.Warning.Println(derr)
		}
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	if *monoline {
		err = writeMonoline(result, cfg, set, *page, *outDir, opts)
	} else {
		err = writeGlyphs(result, *outDir)
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	data := pterm.TableData{{"Unicode", "Char", "Advance", "Path commands"}}
	for _, g := range result.Glyphs {
		data = append(data, []string{
			fmt.Sprintf("U+%04X", g.Unicode),
			string(g.Unicode),
			fmt.Sprintf("%d", g.AdvanceWidth),
			fmt.Sprintf("%d", len(g.SVGPath)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Success.Printf("%d glyphs written to %s\n", len(result.Glyphs), *outDir)
}

func renderBlank(cfg scan2font.TemplateConfig, page int, set scan2font.CharacterSet, path string) error {
	img, err := scan2font.RenderBlankTemplate(cfg, page, set)
	if err != nil {
		return err
	}
	return imageutil.SavePNG(img.RGBA, path)
}

// writeGlyphs writes one SVG document per glyph and a JSON manifest.
func writeGlyphs(result scan2font.ProcessingResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	metrics := scan2font.DefaultFontMetrics()
	for _, g := range result.Glyphs {
		svg := fmt.Sprintf(
			`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 %d %d %d">`+
				`<path transform="scale(1,-1)" d="%s"/></svg>`+"\n",
			metrics.Descender, g.AdvanceWidth, metrics.Ascender-metrics.Descender, g.SVGPath)
		name := filepath.Join(dir, fmt.Sprintf("U+%04X.svg", g.Unicode))
		if err := os.WriteFile(name, []byte(svg), 0o644); err != nil {
			return err
		}
	}

	manifest, err := json.MarshalIndent(result.Glyphs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "glyphs.json"), manifest, 0o644)
}

// writeMonoline re-extracts each cell as centerline strokes and writes
// them as SVG polylines for plotter use.
func writeMonoline(result scan2font.ProcessingResult, cfg scan2font.TemplateConfig, set scan2font.CharacterSet, page int, dir string, opts scan2font.ProcessingOptions) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tc, err := scan2font.GetTemplateCoordinates(cfg)
	if err != nil {
		return err
	}
	cleaned := result.Debug.Cleaned
	if cleaned == nil {
		return fmt.Errorf("no cleaned mask available for monoline extraction")
	}

	chars := scan2font.PageCharacters(set, cfg, page)
	for row := 0; row < cfg.RowsPerPage; row++ {
		for col := 0; col < cfg.CellsPerRow; col++ {
			idx := row*cfg.CellsPerRow + col
			if idx >= len(chars) {
				continue
			}
			cell := scan2font.ExtractCellMask(cleaned, cleaned, tc, row, col, chars[idx],
				opts.MinComponentArea, opts.RejectTopFraction)
			strokes := scan2font.ExtractMonoline(cell, scan2font.DefaultMonolineOptions())
			if len(strokes) == 0 {
				continue
			}

			var paths string
			for _, s := range strokes {
				if len(s.Points) == 0 {
					continue
				}
				d := fmt.Sprintf("M %.2f %.2f", s.Points[0].X, s.Points[0].Y)
				for _, p := range s.Points[1:] {
					d += fmt.Sprintf(" L %.2f %.2f", p.X, p.Y)
				}
				paths += fmt.Sprintf(`<path d="%s" fill="none" stroke="black"/>`, d)
			}
			svg := fmt.Sprintf(
				`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">%s</svg>`+"\n",
				cell.Mask.Width(), cell.Mask.Height(), paths)
			name := filepath.Join(dir, fmt.Sprintf("U+%04X.strokes.svg", chars[idx]))
			if err := os.WriteFile(name, []byte(svg), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDebugImages dumps the intermediate page artifacts.
func writeDebugImages(result scan2font.ProcessingResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if result.Markers.Binarized != nil {
		if err := imageutil.SaveGrayImage(result.Markers.Binarized, filepath.Join(dir, "binarized.png")); err != nil {
			return err
		}
	}
	if result.Debug.Warped != nil {
		if err := imageutil.SavePNG(result.Debug.Warped.RGBA, filepath.Join(dir, "warped.png")); err != nil {
			return err
		}
	}
	if result.Debug.Subtracted != nil {
		if err := imageutil.SaveGrayImage(result.Debug.Subtracted, filepath.Join(dir, "subtracted.png")); err != nil {
			return err
		}
	}
	if result.Debug.Thresholded != nil {
		if err := imageutil.SaveGrayImage(result.Debug.Thresholded, filepath.Join(dir, "thresholded.png")); err != nil {
			return err
		}
	}
	if result.Debug.Cleaned != nil {
		if err := imageutil.SaveGrayImage(result.Debug.Cleaned, filepath.Join(dir, "cleaned.png")); err != nil {
			return err
		}
	}
	return nil
}
