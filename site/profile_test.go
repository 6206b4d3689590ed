package site

import (
	"context"
	"errors"
	"testing"

	"github.com/use-agent/shopscout/browser/browsertest"
	"github.com/use-agent/shopscout/models"
)

func TestSubmitSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		profile  Profile
		navigate bool
	}{
		{"aliexpress", AliExpress(), false},
		{"amazon", Amazon(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &browsertest.Session{}
			e := New(tt.profile)
			if err := e.SubmitSearch(context.Background(), s, "auriculares"); err != nil {
				t.Fatalf("SubmitSearch() error = %v", err)
			}

			calls := s.Calls()
			if len(calls) != 2 {
				t.Fatalf("expected 2 calls, got %+v", calls)
			}
			if calls[0].Method != "WaitVisible" || calls[0].Arg != tt.profile.Selectors.SearchInput {
				t.Errorf("first call = %+v", calls[0])
			}
			if calls[0].Timeout != tt.profile.Timing.InputTimeout {
				t.Errorf("input timeout = %s, want %s", calls[0].Timeout, tt.profile.Timing.InputTimeout)
			}
			submit := calls[1]
			if submit.Method != "TypeAndSubmit" || submit.Text != "auriculares" {
				t.Errorf("second call = %+v", submit)
			}
			if submit.Navigate != tt.navigate {
				t.Errorf("AwaitNavigation = %v, want %v", submit.Navigate, tt.navigate)
			}
		})
	}
}

func TestSubmitSearchStopsOnMissingInput(t *testing.T) {
	t.Parallel()

	waitErr := models.NewScrapeError(models.ErrCodeTimeout, "input not visible", context.DeadlineExceeded)
	s := &browsertest.Session{WaitErr: waitErr}

	err := New(Amazon()).SubmitSearch(context.Background(), s, "auriculares")
	if !errors.Is(err, waitErr) {
		t.Fatalf("SubmitSearch() error = %v, want %v", err, waitErr)
	}
	for _, c := range s.Calls() {
		if c.Method == "TypeAndSubmit" {
			t.Error("should not type when the input never appeared")
		}
	}
}

func TestExtractRawUsesSessionHTML(t *testing.T) {
	t.Parallel()

	s := &browsertest.Session{Page: readFixture(t, "aliexpress.html")}
	got, err := New(AliExpress()).ExtractRaw(context.Background(), s)
	if err != nil {
		t.Fatalf("ExtractRaw() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d listings, want 3", len(got))
	}

	s = &browsertest.Session{HTMLErr: models.NewScrapeError(models.ErrCodeExtraction, "boom", nil)}
	if _, err := New(AliExpress()).ExtractRaw(context.Background(), s); models.CodeOf(err) != models.ErrCodeExtraction {
		t.Errorf("ExtractRaw() code = %s, want %s", models.CodeOf(err), models.ErrCodeExtraction)
	}
}

func TestWaitForResultsSkipsEmptySelector(t *testing.T) {
	t.Parallel()

	p := AliExpress()
	p.Selectors.Results = ""
	s := &browsertest.Session{}
	if err := New(p).WaitForResults(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if len(s.Calls()) != 0 {
		t.Errorf("expected no session calls, got %+v", s.Calls())
	}
}
