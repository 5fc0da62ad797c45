package carrier

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/boxtrace/pkg/browser"
	"github.com/entrhq/boxtrace/pkg/identifier"
	"github.com/entrhq/boxtrace/pkg/logging"
)

// ErrSectionNotFound is returned when the HMM lookup form cannot be driven.
var ErrSectionNotFound = errors.New("carrier: track & trace section not found")

// Labels on the HMM tracking page.
const (
	hmmPopupClose    = "Close"
	hmmSectionLabel  = "Track & Trace"
	hmmSectionLevels = 2
	hmmSearchType    = "Container No."
	hmmSubmit        = "Retrieve"
)

// HMM drives the Hyundai Merchant Marine tracking form.
type HMM struct {
	timing Timing
	logger *logging.Logger
}

// NewHMM creates the HMM handler.
func NewHMM(timing Timing, logger *logging.Logger) *HMM {
	if logger == nil {
		logger = logging.Discard("carrier.hmm")
	}
	return &HMM{timing: timing, logger: logger}
}

// Name returns "hmm".
func (h *HMM) Name() string {
	return "hmm"
}

// Extract dismisses the welcome dialog, fills the Track & Trace form and
// returns the page markup after the in-page refresh. The dialog and the
// nested frame are optional; every form step is required.
func (h *HMM) Extract(ctx context.Context, page browser.Page, id identifier.ContainerID) (string, error) {
	h.logger.Infof("searching for popup")
	if err := page.ClickButton(hmmPopupClose, h.timing.PopupTimeout); err != nil {
		h.logger.Infof("no popup detected: %v", err)
	} else {
		h.logger.Infof("closed popup")
	}

	var scope browser.Scope = page
	frame, err := page.Frame()
	switch {
	case err != nil:
		h.logger.Warnf("iframe lookup failed, continuing on main page: %v", err)
	case frame != nil:
		h.logger.Infof("found iframe, switching context")
		scope = frame
	default:
		h.logger.Infof("no iframe found, continuing on main page")
	}

	h.logger.Infof("locating %q section", hmmSectionLabel)
	section := scope.Section(hmmSectionLabel, hmmSectionLevels)

	if err := section.SelectOption(hmmSearchType); err != nil {
		return "", fmt.Errorf("%w: select %q: %v", ErrSectionNotFound, hmmSearchType, err)
	}

	h.logger.Infof("entering container number %s", id)
	if err := section.Fill(id.String()); err != nil {
		return "", fmt.Errorf("%w: fill container number: %v", ErrSectionNotFound, err)
	}

	h.logger.Infof("clicking %q", hmmSubmit)
	if err := section.ClickButton(hmmSubmit); err != nil {
		return "", fmt.Errorf("%w: click %q: %v", ErrSectionNotFound, hmmSubmit, err)
	}

	// The result table refreshes in place; there is no navigation to wait on.
	h.logger.Debugf("waiting %s for results", h.timing.SettleWait)
	if err := browser.Sleep(ctx, h.timing.SettleWait); err != nil {
		return "", err
	}

	markup, err := scope.Markup()
	if err != nil {
		return "", err
	}
	h.logger.Debugf("read %d bytes of markup", len(markup))
	return markup, nil
}
