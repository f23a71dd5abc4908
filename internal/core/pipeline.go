package core

// pipeline.go orchestrates one reconciliation run through its stages.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mercatto/reconcile/internal/config"
)

// RunState tracks the pipeline through its stages. Failed is terminal and
// reachable from any stage on an unrecoverable input error; no stage
// retries.
type RunState int

const (
	StateIdle RunState = iota
	StateIngesting
	StateResolving
	StateAssembling
	StateWriting
	StateDone
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateIngesting:
		return "ingesting"
	case StateResolving:
		return "resolving"
	case StateAssembling:
		return "assembling"
	case StateWriting:
		return "writing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Delimiter is the field separator of every delimited export this pipeline
// accepts.
const Delimiter = ';'

// Inputs identifies the uploaded artifacts of one run. The paths point at
// temporary files owned by the run; WorkDir, when set, is removed
// unconditionally once the run reaches Done or Failed.
type Inputs struct {
	CatalogFile   string
	LinkageFile   string
	TemplateFile  string
	SecondaryFile string // optional, ingested but consulted by no rule
	StoreContext  string
	WorkDir       string
}

// Result is the outcome of a completed run.
type Result struct {
	Filename string
	Data     []byte
	Rows     int
	Matched  int
	State    RunState
}

// Service runs reconciliation pipelines. It is safe for concurrent use; the
// limiter bounds how many runs execute at once.
type Service struct {
	cfg     *config.Config
	limiter *RunLimiter
}

// NewService creates a Service from the application configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		limiter: NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}
}

// LimiterStatus reports the number of active runs, for shutdown draining.
func (s *Service) LimiterStatus() int {
	return s.limiter.ActiveCount()
}

// WaitForRuns blocks until all active runs complete or ctx expires.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Run executes one reconciliation pipeline:
//
//	Idle -> Ingesting -> Resolving -> Assembling -> Writing -> Done
//
// Any unrecoverable input error short-circuits to Failed and is returned
// typed; per-record anomalies degrade to empty output fields instead.
// Temporary input artifacts are released in every outcome.
func (s *Service) Run(ctx context.Context, in Inputs) (*Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	runID := uuid.NewString()
	logger := slog.With("run_id", runID, "store", in.StoreContext)
	start := time.Now()

	defer s.releaseArtifacts(logger, in)

	state := StateIdle
	fail := func(err error) (*Result, error) {
		logger.Error("run failed", "stage", state.String(), "error", err)
		return &Result{State: StateFailed}, err
	}

	// Ingesting: read and tokenize every provided artifact.
	state = StateIngesting
	logger.Info("run started", "stage", state.String())

	catalogData, err := readInput("catalog", in.CatalogFile)
	if err != nil {
		return fail(err)
	}
	linkageData, err := readInput("linkage", in.LinkageFile)
	if err != nil {
		return fail(err)
	}
	templateData, err := readInput("template", in.TemplateFile)
	if err != nil {
		return fail(err)
	}

	catalog, err := ParseTable("catalog", catalogData, Delimiter)
	if err != nil {
		return fail(err)
	}
	linkage, err := ParseTable("linkage", linkageData, Delimiter)
	if err != nil {
		return fail(err)
	}

	// The secondary listing export is loaded for forward compatibility; no
	// matching or assembly rule consults it yet.
	if in.SecondaryFile != "" {
		secondaryData, err := readInput("secondaryListing", in.SecondaryFile)
		if err != nil {
			return fail(err)
		}
		secondary, err := ParseTable("secondaryListing", secondaryData, Delimiter)
		if err != nil {
			return fail(err)
		}
		logger.Info("secondary listing loaded", "rows", len(secondary.Rows))
	}

	// Resolving: template structure, category position, parent index.
	state = StateResolving
	logger.Debug("stage", "stage", state.String())

	wb, err := OpenTemplate(templateData, s.layout())
	if err != nil {
		return fail(err)
	}
	defer wb.Close()

	categoryCol := ResolveCategoryColumnIndex(catalog.Headers)
	if categoryCol < 0 {
		logger.Warn("catalog category column not found, categories will be blank")
	}

	links := make([]LinkageRecord, 0, len(linkage.Rows))
	for _, rec := range linkage.Rows {
		links = append(links, NewLinkageRecord(rec))
	}
	parents := BuildParentIndex(links)

	// Assembling: one output row per linkage record.
	state = StateAssembling
	logger.Debug("stage", "stage", state.String(), "records", len(links))

	assembler := &Assembler{
		Catalog:     catalog.Rows,
		CategoryCol: categoryCol,
		Parents:     parents,
		Rule:        ResolveStoreRule(in.StoreContext),
	}

	rows := make([]OutputRow, 0, len(links))
	matched := 0
	for _, link := range links {
		row := assembler.Assemble(link)
		if row.Matched {
			matched++
		}
		rows = append(rows, row)
	}

	// Writing: clear the template body, write every row, serialize once.
	state = StateWriting
	logger.Debug("stage", "stage", state.String())

	if err := wb.ClearBody(); err != nil {
		return fail(&UnrecoverableWriteError{Err: err})
	}
	for i, row := range rows {
		if err := wb.WriteRow(s.cfg.Pipeline.BodyStartRow+i, row); err != nil {
			return fail(&UnrecoverableWriteError{Err: err})
		}
	}

	data, err := wb.Bytes()
	if err != nil {
		return fail(err)
	}

	state = StateDone
	result := &Result{
		Filename: buildFilename(in.StoreContext, time.Now()),
		Data:     data,
		Rows:     len(rows),
		Matched:  matched,
		State:    StateDone,
	}
	logger.Info("run completed",
		"rows", result.Rows,
		"matched", result.Matched,
		"unmatched", result.Rows-result.Matched,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// layout builds the template layout from configuration.
func (s *Service) layout() TemplateLayout {
	return TemplateLayout{
		HeaderRow:    s.cfg.Pipeline.HeaderRow,
		BodyStartRow: s.cfg.Pipeline.BodyStartRow,
		CategoryCol:  s.cfg.Pipeline.CategoryColumn,
		Slots:        s.cfg.Pipeline.Slots,
	}
}

// readInput loads one uploaded artifact. An unset path or unreadable file is
// a MissingInputError; content-level problems surface later as
// MalformedInputError.
func readInput(name, path string) ([]byte, error) {
	if path == "" {
		return nil, &MissingInputError{Input: name}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MissingInputError{Input: name}
	}
	return data, nil
}

// releaseArtifacts removes the run's temporary upload directory. Cleanup is
// unconditional for Done and Failed alike; a cleanup failure is logged and
// never masks the run's primary result.
func (s *Service) releaseArtifacts(logger *slog.Logger, in Inputs) {
	if in.WorkDir == "" {
		return
	}
	if err := os.RemoveAll(in.WorkDir); err != nil {
		logger.Warn("failed to release temporary artifacts", "dir", in.WorkDir, "error", err)
	}
}

// buildFilename produces the deterministic, date-stamped download name.
func buildFilename(storeContext string, now time.Time) string {
	slug := NormalizeKey(storeContext)
	slug = nonAlnumRun.ReplaceAllString(slug, "-")
	if slug == "" {
		slug = "loja"
	}
	return fmt.Sprintf("planilha-%s-%s.xlsx", slug, now.Format("2006-01-02"))
}
