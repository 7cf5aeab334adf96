package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexpolo1/newolddkprice/config"
	"github.com/alexpolo1/newolddkprice/scraper"
	"github.com/alexpolo1/newolddkprice/utils"
)

// newSiteServer serves the DBA and PriceRunner fixtures with the given
// status codes.
func newSiteServer(t *testing.T, dbaStatus, prStatus int) *httptest.Server {
	t.Helper()
	dbaPage, err := os.ReadFile("scraper/dba/testdata/search.html")
	if err != nil {
		t.Fatal(err)
	}
	prPage, err := os.ReadFile("scraper/pricerunner/testdata/results.html")
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recommerce/forsale/search":
			w.WriteHeader(dbaStatus)
			w.Write(dbaPage)
		case "/results":
			w.WriteHeader(prStatus)
			w.Write(prPage)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runWith(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{
		DBABaseURL:         srv.URL,
		PriceRunnerBaseURL: srv.URL,
		UserAgent:          "dkprice-test",
		HTTPTimeoutSeconds: 5,
	}
	opts, err := config.ParseOptions(args, io.Discard)
	if err != nil {
		t.Fatalf("ParseOptions(%v): %v", args, err)
	}

	var out bytes.Buffer
	err = run(context.Background(), cfg, opts, utils.Discard(), &out)
	return out.String(), err
}

func TestRunSortedDefault(t *testing.T) {
	srv := newSiteServer(t, http.StatusOK, http.StatusOK)
	out, err := runWith(t, srv, "iphone", "13")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(out, "DBA — top 4 by price:") {
		t.Errorf("missing sorted header:\n%s", out)
	}
	if strings.Index(out, "iPhone 13 mini") > strings.Index(out, "iPhone 13 128GB midnight") {
		t.Errorf("cheaper listing should come first:\n%s", out)
	}
	if !strings.Contains(out, "Price summary") || strings.Contains(out, "PriceRunner") {
		t.Errorf("summary should cover DBA only:\n%s", out)
	}
}

func TestRunJSON(t *testing.T) {
	srv := newSiteServer(t, http.StatusOK, http.StatusOK)
	out, err := runWith(t, srv, "-json", "-min-price", "2.000", "iphone")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var listings []map[string]any
	if err := json.Unmarshal([]byte(out), &listings); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if len(listings) != 1 || listings[0]["price_num"] != 3500.0 {
		t.Errorf("expected only the 3500 kr. listing, got %v", listings)
	}
}

func TestRunCompareMarkdown(t *testing.T) {
	srv := newSiteServer(t, http.StatusOK, http.StatusOK)
	out, err := runWith(t, srv, "-compare", "-format", "markdown", "-top", "3", "iphone")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wants := []string{
		"| DBA | PriceRunner |",
		"[iPhone 13 mini](https://www.dba.dk/recommerce/forsale/item/1002)<br>1 250 kr.<br>Fyn",
		"[Cover \"Clear\" til iPhone 13](" + srv.URL + "/pl/9-1)<br>149.00",
		"PriceRunner  listings: 5",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	tableLines := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| ") {
			tableLines++
		}
	}
	if tableLines != 4 {
		t.Errorf("expected header + 3 rows, got %d table lines:\n%s", tableLines, out)
	}
}

func TestRunPriceRunnerFailureContinues(t *testing.T) {
	srv := newSiteServer(t, http.StatusOK, http.StatusForbidden)
	out, err := runWith(t, srv, "-pricerunner", "iphone")
	if err != nil {
		t.Fatalf("run should survive a PriceRunner failure: %v", err)
	}
	if !strings.Contains(out, "Found 0 items on PriceRunner") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDBAFailure(t *testing.T) {
	srv := newSiteServer(t, http.StatusServiceUnavailable, http.StatusOK)
	_, err := runWith(t, srv, "iphone")

	var statusErr *scraper.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected DBA status error, got %v", err)
	}
}

func TestRunExportCSV(t *testing.T) {
	srv := newSiteServer(t, http.StatusOK, http.StatusOK)
	path := filepath.Join(t.TempDir(), "prices.csv")
	if _, err := runWith(t, srv, "-pricerunner", "-export", path, "iphone"); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// header, 4 DBA rows, 5 PriceRunner rows
	if len(records) != 10 {
		t.Fatalf("expected 10 csv records, got %d", len(records))
	}
	runID := records[1][0]
	if runID == "" || records[9][0] != runID || records[9][1] != "pricerunner" {
		t.Errorf("rows should share one run id: first %v, last %v", records[1], records[9])
	}
}

func TestRunExportUnsupported(t *testing.T) {
	srv := newSiteServer(t, http.StatusOK, http.StatusOK)
	_, err := runWith(t, srv, "-export", filepath.Join(t.TempDir(), "prices.xlsx"), "iphone")
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}
