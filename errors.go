package scan2font

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors of the pipeline. Recoverable errors abort the page and
// are surfaced with debug images; fatal ones indicate a programming or
// configuration error before processing begins.
var (
	// ErrConfigInvalid indicates zero or negative dimensions in a
	// TemplateConfig. Fatal before any processing.
	ErrConfigInvalid = errors.New("scan2font: invalid template config")

	// ErrHomographyDegenerate indicates collinear or near-singular
	// marker correspondences.
	ErrHomographyDegenerate = errors.New("scan2font: degenerate homography")

	// ErrInvalidPolarity indicates a binary input that could not be
	// normalized to the ink=255 convention. Fatal (programming error).
	ErrInvalidPolarity = errors.New("scan2font: binary mask has invalid polarity")

	// ErrCanceled indicates the host's progress callback requested a
	// fail-fast abort.
	ErrCanceled = errors.New("scan2font: processing canceled")
)

// Corner names one fiducial position on the page.
type Corner string

const (
	CornerTL Corner = "TL"
	CornerTR Corner = "TR"
	CornerBL Corner = "BL"
	CornerBR Corner = "BR"
)

// FiducialsError reports which corner markers were located before the
// detector gave up. The partial detection and its binarized image stay
// available on the ProcessingResult for user-facing diagnostics.
type FiducialsError struct {
	Found map[Corner]bool
}

func (e *FiducialsError) Error() string {
	var missing []string
	for _, c := range []Corner{CornerTL, CornerTR, CornerBL, CornerBR} {
		if !e.Found[c] {
			missing = append(missing, string(c))
		}
	}
	sort.Strings(missing)
	return fmt.Sprintf("scan2font: fiducial markers missing: %s", strings.Join(missing, ", "))
}
