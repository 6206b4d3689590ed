// Command benchmark runs a fixed set of product searches against a running
// shopscout server and reports latency and per-site yield.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/shopscout/models"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "shopscout API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "Number of runs per term for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Terms covering short, long and accented queries.
var testTerms = []struct {
	Label string
	Term  string
}{
	{"Short", "usb"},
	{"Common", "auriculares bluetooth"},
	{"Long", "funda silicona iphone 15 pro max transparente"},
	{"Accented", "cámara de acción"},
	{"Rare", "sextante de latón"},
}

type runResult struct {
	Run     int               `json:"run"`
	TotalMs int64             `json:"total_ms"`
	Counts  map[string]int    `json:"counts"`
	Failed  map[string]string `json:"failed,omitempty"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
}

type termAverages struct {
	TotalMs     float64            `json:"total_ms"`
	Listings    map[string]float64 `json:"listings"`
	SuccessRate map[string]float64 `json:"success_rate"`
}

type termResult struct {
	Term     string        `json:"term"`
	Label    string        `json:"label"`
	Runs     []runResult   `json:"runs"`
	Averages *termAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	APIURL      string       `json:"api_url"`
	RunsPerTerm int          `json:"runs_per_term"`
	Results     []termResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== shopscout benchmark ===")
	fmt.Printf("API URL:    %s\n", *apiURL)
	fmt.Printf("Runs/term:  %d\n", *runs)
	fmt.Printf("Output:     %s\n", *output)
	fmt.Println()

	sites, err := listSites(*apiURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure shopscout is running (shopscout serve)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		RunsPerTerm: *runs,
	}

	for _, t := range testTerms {
		fmt.Printf("Benchmarking [%s] %q ...\n", t.Label, t.Term)
		tr := termResult{Term: t.Term, Label: t.Label}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkTerm(t.Term, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %v\n", rr.TotalMs, rr.Counts)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			tr.Runs = append(tr.Runs, rr)
		}

		tr.Averages = computeAverages(tr.Runs, sites)
		report.Results = append(report.Results, tr)
		fmt.Println()
	}

	printTable(report.Results, sites)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func listSites(baseURL string) ([]string, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/sites")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr models.SitesResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sr.Sites))
	for _, s := range sr.Sites {
		ids = append(ids, s.ID)
	}
	slices.Sort(ids)
	return ids, nil
}

func benchmarkTerm(term string, run int) runResult {
	rr := runResult{Run: run}

	bodyBytes, err := json.Marshal(models.SearchRequest{Term: term})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/search", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var sr models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	if sr.Error != nil {
		rr.Error = sr.Error.Message
		return rr
	}

	rr.Success = sr.Success
	rr.TotalMs = sr.Timing.TotalMs
	rr.Counts = make(map[string]int, len(sr.Sites))
	for id, site := range sr.Sites {
		if !site.OK() {
			if rr.Failed == nil {
				rr.Failed = map[string]string{}
			}
			rr.Failed[id] = site.ErrorCode
			continue
		}
		rr.Counts[id] = site.Count
	}
	return rr
}

func computeAverages(runs []runResult, sites []string) *termAverages {
	var successCount int
	avg := termAverages{
		Listings:    map[string]float64{},
		SuccessRate: map[string]float64{},
	}

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		for _, id := range sites {
			if n, ok := r.Counts[id]; ok {
				avg.Listings[id] += float64(n)
				avg.SuccessRate[id]++
			}
		}
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	for _, id := range sites {
		if ok := avg.SuccessRate[id]; ok > 0 {
			avg.Listings[id] /= ok
		}
		avg.SuccessRate[id] = avg.SuccessRate[id] / n * 100
	}
	return &avg
}

func printTable(results []termResult, sites []string) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header := []string{"Term", "Avg Latency"}
	rule := []string{"────", "───────────"}
	for _, id := range sites {
		header = append(header, id)
		rule = append(rule, strings.Repeat("─", len(id)))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Join(rule, "\t"))

	for _, r := range results {
		row := []string{truncate(r.Term, 30)}
		if r.Averages == nil {
			row = append(row, "FAILED")
			for range sites {
				row = append(row, "-")
			}
			fmt.Fprintln(w, strings.Join(row, "\t"))
			continue
		}

		row = append(row, fmt.Sprintf("%dms", int64(r.Averages.TotalMs)))
		for _, id := range sites {
			row = append(row, fmt.Sprintf("%.1f (%.0f%%)", r.Averages.Listings[id], r.Averages.SuccessRate[id]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
