package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/use-agent/shopscout/models"
)

// categorizeError wraps raw navigation errors into typed ScrapeErrors.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeNavigation, msg+": timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeNavigation, "navigation canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}

// waitError maps a failed element wait. Only deadline and cancellation
// count as timeouts; anything else means the DOM query itself broke.
func waitError(err error, selector string, timeout time.Duration) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout,
			fmt.Sprintf("element %q not visible within %s", selector, timeout), err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout,
			fmt.Sprintf("wait for %q canceled", selector), err)
	default:
		return models.NewScrapeError(models.ErrCodeExtraction,
			fmt.Sprintf("query for %q failed", selector), err)
	}
}
