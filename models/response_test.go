package models

import (
	"encoding/json"
	"testing"
)

func TestSiteResultJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   SiteResult
		want string
	}{
		{
			name: "empty success keeps listings",
			in:   SiteResult{},
			want: `{"listings":[],"count":0}`,
		},
		{
			name: "success",
			in: SiteResult{
				Listings: []ListingView{{Listing: Listing{Title: "A", RawPrice: "1", ImageURL: "https://img.test/a.jpg"}}},
				Count:    1,
			},
			want: `{"listings":[{"title":"A","rawPrice":"1","imageUrl":"https://img.test/a.jpg"}],"count":1}`,
		},
		{
			name: "failure carries only the error",
			in:   SiteResult{Error: "timed out", ErrorCode: ErrCodeTimeout},
			want: `{"error":"timed out","error_code":"SELECTOR_TIMEOUT"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewBuscarResponse(t *testing.T) {
	t.Parallel()

	resp := NewBuscarResponse([]Listing{
		{ID: "x", Title: "B", RawPrice: "2,50 €", ImageURL: "https://img.test/b.jpg"},
		{Title: "A", RawPrice: "1", ImageURL: "https://img.test/a.jpg"},
	})
	got, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"resultados":[{"titulo":"B","precio":"2,50 €","imagen":"https://img.test/b.jpg"},{"titulo":"A","precio":"1","imagen":"https://img.test/a.jpg"}]}`
	if string(got) != want {
		t.Errorf("got %s\nwant %s", got, want)
	}

	if got, _ := json.Marshal(NewBuscarResponse(nil)); string(got) != `{"resultados":[]}` {
		t.Errorf("empty = %s", got)
	}
}
