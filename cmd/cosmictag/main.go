package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/cosmictag/internal/config"
	"github.com/banshee-data/cosmictag/internal/cosmic"
	"github.com/banshee-data/cosmictag/internal/event"
	"github.com/banshee-data/cosmictag/internal/monitoring"
	"github.com/banshee-data/cosmictag/internal/report"
	"github.com/banshee-data/cosmictag/internal/storage/sqlite"
	"github.com/banshee-data/cosmictag/internal/timeutil"
	"github.com/banshee-data/cosmictag/internal/version"
)

var (
	configFile  = flag.String("config", "", "Path to tuning JSON (defaults to built-in values)")
	dbPath      = flag.String("db", "", "SQLite database to store runs in (optional)")
	workers     = flag.Int("workers", -1, "Worker count override (0 = GOMAXPROCS, -1 = use config)")
	outPath     = flag.String("out", "", "Write tag output JSON here (default stdout)")
	reportPNG   = flag.String("report-png", "", "Write a tag-kind bar chart image to this path")
	reportHTML  = flag.String("report-html", "", "Write a tag-kind HTML chart to this path")
	summary     = flag.Bool("summary", false, "Print a tag-kind summary to stderr")
	verbose     = flag.Bool("v", false, "Log per-object classification details")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

type options struct {
	configFile string
	dbPath     string
	workers    int
	outPath    string
	reportPNG  string
	reportHTML string
	summary    bool
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: cosmictag [flags] events.{json,yaml}...\n")
		fmt.Fprintf(flag.CommandLine.Output(), "       cosmictag -db runs.db -summary   (summarise stored runs)\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	monitoring.SetVerbose(*verbose)

	opts := options{
		configFile: *configFile,
		dbPath:     *dbPath,
		workers:    *workers,
		outPath:    *outPath,
		reportPNG:  *reportPNG,
		reportHTML: *reportHTML,
		summary:    *summary,
	}
	if flag.NArg() == 0 && opts.dbPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(opts, flag.Args(), os.Stdout, os.Stderr); err != nil {
		monitoring.Logf("cosmictag: %v", err)
		os.Exit(1)
	}
}

func loadParams(o options) (cosmic.Params, error) {
	cfg := config.DefaultTuningConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(o.configFile); err != nil {
			return cosmic.Params{}, err
		}
	}
	params := cfg.Params()
	if o.workers >= 0 {
		params.Workers = o.workers
	}
	return params, nil
}

// run tags every event in files. With no files and a database it only
// reports on the runs already stored.
func run(o options, files []string, stdout, stderr io.Writer) error {
	params, err := loadParams(o)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	tagger, err := cosmic.NewTagger(params)
	if err != nil {
		return err
	}
	monitoring.Logf("[cosmictag] %s drift_window_ticks=%d workers=%d", version.String(), params.DriftWindowTicks, params.Workers)

	var store *sqlite.TagStore
	if o.dbPath != "" {
		db, err := sqlite.Open(o.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = sqlite.NewTagStore(db.DB)
	}

	if len(files) == 0 {
		if store == nil {
			return fmt.Errorf("no event files given")
		}
		return reportStored(o, store, stderr)
	}

	var (
		results []cosmic.Result
		outputs []event.Output
	)
	var clock timeutil.Clock = timeutil.RealClock{}
	for _, path := range files {
		start := clock.Now()
		records, err := event.LoadFile(path)
		if err != nil {
			return err
		}
		for _, rec := range records {
			res, err := tagger.TagEvent(rec)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if store != nil {
				stored, err := store.InsertResult(res, params)
				if err != nil {
					return err
				}
				monitoring.Logf("[cosmictag] event %s stored as run %s (%d tags)", res.EventID, stored.RunID, stored.TagCount)
			}
			results = append(results, res)
			outputs = append(outputs, event.NewOutput(res))
		}
		monitoring.Logf("[cosmictag] %s: %d events in %v", path, len(records), clock.Since(start))
	}

	if err := writeOutputs(o.outPath, outputs, stdout); err != nil {
		return err
	}
	return writeReports(o, report.Summarise(results), stderr)
}

func reportStored(o options, store *sqlite.TagStore, stderr io.Writer) error {
	counts, err := store.CountByKind("")
	if err != nil {
		return err
	}
	runs, err := store.ListRuns("")
	if err != nil {
		return err
	}
	s := report.FromCounts(counts)
	s.Events = len(runs)
	o.summary = o.summary || (o.reportPNG == "" && o.reportHTML == "")
	return writeReports(o, s, stderr)
}

func writeOutputs(path string, outputs []event.Output, stdout io.Writer) error {
	if path == "" {
		return event.WriteJSON(stdout, outputs)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := event.WriteJSON(f, outputs); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

func writeReports(o options, s report.Summary, stderr io.Writer) error {
	if o.summary {
		if err := report.WriteText(stderr, s); err != nil {
			return err
		}
	}
	if o.reportPNG != "" {
		if err := report.WritePNG(o.reportPNG, s); err != nil {
			return err
		}
	}
	if o.reportHTML != "" {
		f, err := os.Create(o.reportHTML)
		if err != nil {
			return fmt.Errorf("create html report: %w", err)
		}
		if err := report.WriteHTML(f, s); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
