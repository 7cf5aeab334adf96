package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Engine selects how the DBA search page is fetched.
type Engine string

const (
	EngineRequests Engine = "requests"
	EngineBrowser  Engine = "browser"
)

// Format selects the comparison layout.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatGrid     Format = "grid"
)

// Options holds the command-line flags for a single run.
type Options struct {
	Query       string
	Engine      Engine
	Max         int
	JSON        bool
	Top         int
	PriceRunner bool
	Compare     bool
	Format      Format
	MinPrice    string
	MaxPrice    string
	ExportPath  string
}

// ErrNoQuery is returned when no search terms were given.
var ErrNoQuery = errors.New("no search terms given")

// ParseOptions parses command-line arguments (without the program name).
func ParseOptions(args []string, output io.Writer) (*Options, error) {
	fs := flag.NewFlagSet("dkprice", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: dkprice [flags] search terms...")
		fs.PrintDefaults()
	}

	opts := &Options{}
	var engine, format string
	fs.StringVar(&engine, "engine", string(EngineRequests), "DBA fetch engine: requests or browser")
	fs.IntVar(&opts.Max, "max", 15, "maximum results to collect per site")
	fs.BoolVar(&opts.JSON, "json", false, "print DBA results as JSON")
	fs.IntVar(&opts.Top, "top", 0, "print top N DBA results with price and location")
	fs.BoolVar(&opts.PriceRunner, "pricerunner", false, "fetch PriceRunner search results as well")
	fs.BoolVar(&opts.Compare, "compare", false, "print a DBA vs PriceRunner comparison (implies -pricerunner)")
	fs.StringVar(&format, "format", string(FormatText), "comparison format: text, markdown or grid")
	fs.StringVar(&opts.MinPrice, "min-price", "", `drop listings below this price (e.g. 500 or "3.000")`)
	fs.StringVar(&opts.MaxPrice, "max-price", "", "drop listings above this price")
	fs.StringVar(&opts.ExportPath, "export", "", "write all listings to a .csv, .json, .db or .sqlite file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.Query = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if opts.Query == "" {
		fs.Usage()
		return nil, ErrNoQuery
	}

	switch e := Engine(engine); e {
	case EngineRequests, EngineBrowser:
		opts.Engine = e
	default:
		return nil, fmt.Errorf("invalid -engine %q: want requests or browser", engine)
	}

	switch f := Format(format); f {
	case FormatText, FormatMarkdown, FormatGrid:
		opts.Format = f
	default:
		return nil, fmt.Errorf("invalid -format %q: want text, markdown or grid", format)
	}

	if opts.Max <= 0 {
		return nil, fmt.Errorf("invalid -max %d: must be positive", opts.Max)
	}
	return opts, nil
}

// WantPriceRunner reports whether PriceRunner should be fetched.
func (o *Options) WantPriceRunner() bool {
	return o.PriceRunner || o.Compare
}

// Rows is the number of comparison rows to print.
func (o *Options) Rows() int {
	if o.Top > 0 {
		return o.Top
	}
	return 10
}
