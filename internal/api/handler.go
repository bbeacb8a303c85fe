// Package api exposes the analyzer over HTTP.
package api

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/insightdelivered/statement-analyzer/internal/config"
	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/parser"
	"github.com/insightdelivered/statement-analyzer/internal/split"
	"github.com/insightdelivered/statement-analyzer/internal/writer"
)

const apiVersion = "1.0.0"

// AnalyzeResponse is the JSON response from POST /api/analyze.
type AnalyzeResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	RunID        string               `json:"runId,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Splits       []models.SplitRecord `json:"splits,omitempty"`
	Months       []split.MonthSummary `json:"months,omitempty"`
	Totals       split.Totals         `json:"totals"`
	Warnings     models.Warnings      `json:"warnings"`
	CSV          string               `json:"csv,omitempty"`
	Count        int                  `json:"count"`
	Version      string               `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API. Request logging comes
// from the logger carried in the request context; the server installs
// it through a middleware.
type Handler struct {
	Config *config.Config
}

// Register sets up the API routes on a fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.Health)
	app.Post("/api/analyze", h.Analyze)
}

// Health reports liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": apiVersion,
	})
}

// Analyze accepts a statement upload (a PDF file in form field "file",
// or pre-extracted text in form field "extractedText"), parses it, and
// returns the transactions with splits, monthly rollups and CSV.
// Optional form fields: "from"/"to" (YYYY-MM-DD date filters) and
// "csv" ("false" to omit the CSV payload).
func (h *Handler) Analyze(c *fiber.Ctx) error {
	cfg := h.Config
	if cfg == nil {
		cfg = config.Default()
	}

	lines, err := h.statementLines(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := parser.NewSession(cfg.SessionOptions())
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	st, err := session.Parse(lines)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("parsing failed: %v", err))
	}

	cfg.Categorizer().Apply(st.Transactions)

	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	if !from.IsZero() || !to.IsZero() {
		st.Transactions = split.FilterRange(st.Transactions, from, to)
	}

	calc, err := cfg.Calculator()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	analysis := split.Analyze(st, calc)

	resp := AnalyzeResponse{
		Success:      true,
		RunID:        uuid.NewString(),
		Transactions: analysis.Transactions,
		Splits:       analysis.Splits,
		Months:       analysis.Months,
		Totals:       analysis.Totals,
		Warnings:     analysis.Warnings,
		Count:        len(analysis.Transactions),
		Version:      apiVersion,
	}
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}

	if c.FormValue("csv") != "false" {
		var buf bytes.Buffer
		w := &writer.CSVWriter{IncludeHeader: true, PartyA: calc.PartyA, PartyB: calc.PartyB}
		if err := w.Write(&buf, analysis); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		resp.CSV = buf.String()
	}

	log := logger.FromContext(c.UserContext())
	log.Info().
		Str("runId", resp.RunID).
		Int("transactions", resp.Count).
		Int("malformed", resp.Warnings.MalformedLines).
		Int("unresolved", resp.Warnings.UnresolvedGroups).
		Msg("analyzed statement")

	return c.JSON(resp)
}

// statementLines pulls the raw lines out of the request: pre-extracted
// text wins, otherwise the uploaded PDF goes through the extractor.
func (h *Handler) statementLines(c *fiber.Ctx) ([]string, error) {
	if text := c.FormValue("extractedText"); text != "" {
		return extractor.Lines([]string{text}), nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("no statement uploaded; use form field 'file' or 'extractedText'")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files are supported")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	defer f.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, f); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	tmp.Close()

	lines, err := extractor.ExtractFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("PDF extraction failed: %w", err)
	}
	return lines, nil
}

func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if v := c.FormValue("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("invalid 'from' date %q, want YYYY-MM-DD", v)
		}
	}
	if v := c.FormValue("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("invalid 'to' date %q, want YYYY-MM-DD", v)
		}
	}
	return from, to, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success: false,
		Error:   msg,
	})
}
