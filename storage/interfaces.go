package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexpolo1/newolddkprice/models"
)

// ListingWriter is the interface any export sink must satisfy.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}

// Open creates the file sink matching the extension of path. Every row it
// writes is tagged with runID.
func Open(path, runID string) (ListingWriter, error) {
	var (
		w   ListingWriter
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		w, err = NewCSVWriter(path, runID)
	case ".json":
		w, err = CreateJSONFile(path, runID)
	case ".db", ".sqlite", ".sqlite3":
		w, err = NewSQLiteWriter(path, runID)
	default:
		return nil, fmt.Errorf("storage: unsupported export format %q (want .csv, .json, .db or .sqlite)", ext)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
