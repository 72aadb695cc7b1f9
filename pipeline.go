package scan2font

import (
	"fmt"
	"time"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// ProgressFunc reports stage transitions and per-cell progress to the
// host. Returning a non-nil error requests a fail-fast abort, which the
// pipeline observes between stages and between cells.
type ProgressFunc func(stage string, percent int) error

// ProcessingOptions configures one page run. DefaultOptions returns the
// documented defaults; fields are used as given, and zero values are not
// replaced by defaults.
type ProcessingOptions struct {
	// Config selects grid, page size and dpi.
	Config TemplateConfig

	// CharacterSet determines which character occupies each cell.
	CharacterSet CharacterSet

	// PageNumber selects the slice of the character list on this page.
	PageNumber int

	// SubtractThreshold is the differencer's binarization cutoff.
	SubtractThreshold uint8

	// MorphologyCloseSize and MorphologyOpenSize are the elliptical
	// kernel sizes of the cleanup stage; 0 disables the operation.
	MorphologyCloseSize int
	MorphologyOpenSize  int

	// MinComponentArea is the per-cell component area floor in pixels.
	MinComponentArea int

	// RejectTopFraction rejects cell components whose centroid falls in
	// the top fraction of the cell, catching label bleed.
	RejectTopFraction float64

	// Metrics are the font-unit constants of normalization.
	Metrics FontMetrics

	// OnProgress is invoked at stage transitions and per cell. Nil is a
	// no-op.
	OnProgress ProgressFunc
}

// DefaultOptions returns the documented defaults: letter page with an
// 8×10 grid at 150 dpi, required character set, threshold 30, closing 3,
// opening 2, component floor 50 px.
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		Config:              DefaultConfig(),
		CharacterSet:        CharsetRequired,
		PageNumber:          0,
		SubtractThreshold:   DefaultSubtractThreshold,
		MorphologyCloseSize: 3,
		MorphologyOpenSize:  2,
		MinComponentArea:    DefaultMinComponentArea,
		RejectTopFraction:   DefaultRejectTopFraction,
		Metrics:             DefaultFontMetrics(),
	}
}

// DebugImages are the intermediate page-level artifacts of a run, kept
// for diagnostics regardless of success.
type DebugImages struct {
	Warped      *imageutil.RGBAImage
	Subtracted  *imageutil.GrayImage
	Thresholded *imageutil.GrayImage
	Cleaned     *imageutil.GrayImage
}

// ProcessingResult is the outcome of one page run. On recoverable
// failure Success is false and the partial debug images and marker
// detection stay populated so a host can guide the user.
type ProcessingResult struct {
	Success bool
	Glyphs  []GlyphRecord
	Debug   DebugImages
	Markers FiducialResult
}

// Pipeline converts scanned template pages into glyph records. The
// image-processing backend is an explicit dependency; NewPipeline(nil)
// selects the deterministic pure Go backend. A Pipeline is safe for
// concurrent page runs: the template cache is its only shared state.
type Pipeline struct {
	backend Backend
	cache   *TemplateCache
}

// NewPipeline creates a pipeline over the given backend, or the pure Go
// backend when backend is nil.
func NewPipeline(backend Backend) *Pipeline {
	if backend == nil {
		backend = NewPureBackend()
	}
	return &Pipeline{
		backend: backend,
		cache:   NewTemplateCache(DefaultTemplateCacheSize),
	}
}

// ClearCache releases the cached blank template renders.
func (p *Pipeline) ClearCache() {
	p.cache.Clear()
}

// ProcessTemplatePage runs the full pipeline on one scanned page. Page
// buffers live only for the duration of the call; glyph records are
// returned in row-major cell order. Recoverable page-level failures
// return an error alongside a result that carries the debug images;
// blank cells are skipped silently.
func (p *Pipeline) ProcessTemplatePage(scan *imageutil.RGBAImage, opts ProcessingOptions) (ProcessingResult, error) {
	var result ProcessingResult
	log := logging.Logger()
	start := time.Now()

	if err := opts.Config.Validate(); err != nil {
		return result, err
	}

	progress := opts.OnProgress
	if progress == nil {
		progress = func(string, int) error { return nil }
	}
	step := func(stage string, percent int) error {
		if err := progress(stage, percent); err != nil {
			return fmt.Errorf("%w: %s", ErrCanceled, stage)
		}
		return nil
	}

	tc, err := GetTemplateCoordinates(opts.Config)
	if err != nil {
		return result, err
	}

	reference, err := p.cache.Get(opts.Config, opts.PageNumber, opts.CharacterSet)
	if err != nil {
		return result, fmt.Errorf("render blank template: %w", err)
	}
	if err := step("render", 5); err != nil {
		return result, err
	}

	result.Markers = DetectFiducials(scan, p.backend)
	if !result.Markers.Success {
		return result, &FiducialsError{Found: result.Markers.Found()}
	}
	if err := step("fiducials", 15); err != nil {
		return result, err
	}

	warped, homography, err := Rectify(scan, result.Markers.Centers(), tc, p.backend)
	if err != nil {
		return result, err
	}
	result.Debug.Warped = warped
	log.Debug("scan rectified", "homography", homography)
	if err := step("rectify", 25); err != nil {
		return result, err
	}

	diff, mask := SubtractTemplate(warped, reference, opts.SubtractThreshold, p.backend)
	result.Debug.Subtracted = diff
	result.Debug.Thresholded = mask
	if err := step("subtract", 35); err != nil {
		return result, err
	}

	cleaned, err := CleanMask(mask, opts.MorphologyCloseSize, opts.MorphologyOpenSize, p.backend)
	if err != nil {
		return result, err
	}
	result.Debug.Cleaned = cleaned
	if err := step("morphology", 40); err != nil {
		return result, err
	}

	chars := PageCharacters(opts.CharacterSet, opts.Config, opts.PageNumber)
	totalCells := tc.Grid.RowsPerPage * tc.Grid.CellsPerRow
	for row := 0; row < tc.Grid.RowsPerPage; row++ {
		for col := 0; col < tc.Grid.CellsPerRow; col++ {
			idx := row*tc.Grid.CellsPerRow + col
			if idx >= len(chars) {
				continue
			}
			cellPercent := 40 + (idx*55)/totalCells
			if err := step("cells", cellPercent); err != nil {
				return result, err
			}

			cell := ExtractCellMask(cleaned, mask, tc, row, col, chars[idx],
				opts.MinComponentArea, opts.RejectTopFraction)
			vector := VectorizeCell(cell)
			record, ok := BuildGlyphRecord(chars[idx], vector, tc, opts.Metrics)
			if !ok {
				// Blank cell: no record, no error.
				continue
			}
			result.Glyphs = append(result.Glyphs, record)
		}
	}

	result.Success = true
	if err := step("done", 100); err != nil {
		return result, err
	}
	log.Info("page processed",
		"page", opts.PageNumber, "glyphs", len(result.Glyphs), "elapsed", time.Since(start))
	return result, nil
}

// ProcessTemplatePage runs a single page through a one-shot pipeline
// with the pure Go backend.
func ProcessTemplatePage(scan *imageutil.RGBAImage, opts ProcessingOptions) (ProcessingResult, error) {
	return NewPipeline(nil).ProcessTemplatePage(scan, opts)
}
