package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-analyzer/internal/api"
	"github.com/insightdelivered/statement-analyzer/internal/config"
	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/parser"
	"github.com/insightdelivered/statement-analyzer/internal/split"
	"github.com/insightdelivered/statement-analyzer/internal/writer"
)

// Globals are flags shared by all commands.
type Globals struct {
	Config  string `help:"Path to a YAML config file (custom pattern, category rules, split parties)." type:"existingfile" optional:""`
	Verbose bool   `help:"Enable debug logging." short:"v"`
}

func (g *Globals) load() (*config.Config, error) {
	if g.Config == "" {
		return config.Default(), nil
	}
	return config.Load(g.Config)
}

// AnalyzeCmd parses one or more statement files and prints the monthly
// split summary, optionally writing the full CSV.
type AnalyzeCmd struct {
	Files    []string `arg:"" help:"Statement files (.pdf or plain text)." type:"existingfile"`
	Output   string   `help:"Write the detailed CSV to this path." short:"o"`
	From     string   `help:"Only include transactions on or after this date (YYYY-MM-DD)."`
	To       string   `help:"Only include transactions on or before this date (YYYY-MM-DD)."`
	NoHeader bool     `help:"Omit the summary header rows from the CSV."`
}

func (cmd *AnalyzeCmd) Run(g *Globals) error {
	log := logger.New(g.Verbose)

	cfg, err := g.load()
	if err != nil {
		return err
	}

	session, err := parser.NewSession(parser.Options{
		CustomPattern: cfg.CustomPattern,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	// Each statement owns its own resolver state; files are processed
	// strictly one at a time because that state is order-dependent.
	var statements []*models.Statement
	for _, path := range cmd.Files {
		lines, err := extractor.ExtractFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		st, err := session.Parse(lines)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		st.SourceFile = path
		if st.Warnings.Any() {
			log.Warn().
				Str("file", path).
				Int("malformed", st.Warnings.MalformedLines).
				Int("unresolved", st.Warnings.UnresolvedGroups).
				Msg("statement parsed with warnings")
		}
		log.Info().Str("file", path).Int("transactions", len(st.Transactions)).Msg("parsed statement")
		statements = append(statements, st)
	}

	merged := parser.Merge(statements...)
	cfg.Categorizer().Apply(merged.Transactions)

	from, to, err := cmd.dateRange()
	if err != nil {
		return err
	}
	if !from.IsZero() || !to.IsZero() {
		merged.Transactions = split.FilterRange(merged.Transactions, from, to)
	}

	calc, err := cfg.Calculator()
	if err != nil {
		return err
	}
	analysis := split.Analyze(merged, calc)
	printSummary(analysis, calc)

	if cmd.Output != "" {
		w := &writer.CSVWriter{IncludeHeader: !cmd.NoHeader, PartyA: calc.PartyA, PartyB: calc.PartyB}
		if err := w.WriteToFile(cmd.Output, analysis); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", cmd.Output)
	}
	return nil
}

func (cmd *AnalyzeCmd) dateRange() (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if cmd.From != "" {
		from, err = time.Parse("2006-01-02", cmd.From)
		if err != nil {
			return from, to, fmt.Errorf("invalid --from date %q, want YYYY-MM-DD", cmd.From)
		}
	}
	if cmd.To != "" {
		to, err = time.Parse("2006-01-02", cmd.To)
		if err != nil {
			return from, to, fmt.Errorf("invalid --to date %q, want YYYY-MM-DD", cmd.To)
		}
	}
	return from, to, nil
}

func printSummary(a *split.Analysis, calc *split.Calculator) {
	fmt.Printf("Transactions: %d   Credits: %s   Debits: %s   Net: %s\n",
		a.Totals.Count,
		a.Totals.Credits.StringFixed(2),
		a.Totals.Debits.StringFixed(2),
		a.Totals.Net.StringFixed(2))

	if len(a.Months) > 0 {
		fmt.Printf("\n%-8s  %12s  %12s  %12s  %12s\n", "Month", "Inbound", "Outbound", calc.PartyA, calc.PartyB)
		for _, m := range a.Months {
			fmt.Printf("%-8s  %12s  %12s  %12s  %12s\n",
				m.Month,
				m.Inbound.StringFixed(2),
				m.Outbound.StringFixed(2),
				m.ShareA.StringFixed(2),
				m.ShareB.StringFixed(2))
		}
	}

	if a.Warnings.Any() {
		fmt.Fprintf(os.Stderr, "\nWarnings: %d malformed line(s) dropped, %d balance group(s) unresolved\n",
			a.Warnings.MalformedLines, a.Warnings.UnresolvedGroups)
	}
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides ANALYZER_ADDR)." default:""`
}

func (cmd *ServeCmd) Run(g *Globals) error {
	log := logger.New(g.Verbose)
	config.LoadEnv()

	cfg, err := g.load()
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:   "statement-analyzer",
		BodyLimit: 32 << 20,
	})
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(logger.WithContext(c.UserContext(), log))
		return c.Next()
	})
	h := &api.Handler{Config: cfg}
	h.Register(app)

	addr := config.Addr(cmd.Addr)
	log.Info().Str("addr", addr).Msg("starting API server")
	return app.Listen(addr)
}

// Commands is the top-level command set.
type Commands struct {
	Analyze AnalyzeCmd `cmd:"" help:"Parse statement files and compute the categorized revenue split."`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP analysis API."`
}
