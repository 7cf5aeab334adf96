package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexpolo1/newolddkprice/models"
)

// JSONWriter collects listings and encodes them as one indented document on
// Close. Without a run id the document is a bare array of listings.
type JSONWriter struct {
	w        io.Writer
	closer   io.Closer
	runID    string
	listings []models.Listing
	now      func() time.Time
}

type jsonExport struct {
	RunID     string           `json:"run_id"`
	ScrapedAt string           `json:"scraped_at"`
	Listings  []models.Listing `json:"listings"`
}

// NewJSONWriter encodes a bare listing array to w, e.g. stdout.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w, now: time.Now}
}

// CreateJSONFile creates (or truncates) path and writes a run document to it.
func CreateJSONFile(path, runID string) (*JSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("json: create file %q: %w", path, err)
	}
	return &JSONWriter{w: f, closer: f, runID: runID, now: time.Now}, nil
}

// Write buffers listings until Close.
func (j *JSONWriter) Write(listings []models.Listing) error {
	j.listings = append(j.listings, listings...)
	return nil
}

// Close encodes everything written so far and closes the file, if any.
func (j *JSONWriter) Close() error {
	err := j.encode()
	if j.closer != nil {
		if cerr := j.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (j *JSONWriter) encode() error {
	listings := j.listings
	if listings == nil {
		listings = []models.Listing{}
	}

	var doc any = listings
	if j.runID != "" {
		doc = jsonExport{RunID: j.runID, ScrapedAt: timestamp(j.now()), Listings: listings}
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}
	return nil
}
