package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/use-agent/shopscout/models"
)

func TestWaitError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), models.ErrCodeTimeout},
		{"canceled", context.Canceled, models.ErrCodeTimeout},
		{"other", errors.New("cdp: target closed"), models.ErrCodeExtraction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := waitError(tt.err, ".s-main-slot", time.Second)
			if got.Code != tt.want {
				t.Errorf("code = %s, want %s", got.Code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("cause should be preserved")
			}
		})
	}
}

func TestCategorizeError(t *testing.T) {
	t.Parallel()

	got := categorizeError(context.DeadlineExceeded, "navigation to https://www.amazon.es/ failed")
	if got.Code != models.ErrCodeNavigation {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeNavigation)
	}
	if got.Message != "navigation to https://www.amazon.es/ failed: timed out" {
		t.Errorf("unexpected message %q", got.Message)
	}
}

func TestSleepHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleep() = %v, want context.Canceled", err)
	}
	if err := sleep(context.Background(), 0); err != nil {
		t.Errorf("zero sleep returned %v", err)
	}
}
