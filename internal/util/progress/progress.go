package progress

import (
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewSpinner creates an indeterminate spinner for waits of unknown length,
// such as confirmation polling.
func NewSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// Add increments the progress bar while safely handling errors.
func Add(bar *progressbar.ProgressBar, n int) {
	if bar == nil || n == 0 {
		return
	}

	if err := bar.Add(n); err != nil {
		log.Printf("failed to update progress bar: %v", err)
	}
}

// Finish completes the progress bar while safely handling errors.
func Finish(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}

	if err := bar.Finish(); err != nil {
		log.Printf("failed to finish progress bar: %v", err)
	}
}
