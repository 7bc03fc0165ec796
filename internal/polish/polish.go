// Package polish re-formats every document of a model definition into
// canonical form.
package polish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/pbimodel/internal/assemble"
	"github.com/vvka-141/pbimodel/internal/checksum"
	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/files/scanner"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// ErrUnformatted is returned in check mode when at least one file would change.
var ErrUnformatted = errors.New("definition is not canonically formatted")

// Status is the outcome for one file.
type Status string

const (
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
)

// FileReport describes one processed file.
type FileReport struct {
	Path         string
	RelativePath string
	Kind         scanner.Kind
	Status       Status
	// LayoutOnly is set for changed files whose normalized checksum did not
	// move: only whitespace, braces or colons differ.
	LayoutOnly bool
	Reason     string
}

// Report lists every file in path order.
type Report struct {
	Files         []FileReport
	Relationships *relationships.Result
}

// Count returns the number of files with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Options configure a polish run.
type Options struct {
	Indent tmdl.Indent
	Policy relationships.Policy

	// Check computes the report without writing anything.
	Check bool

	// Workers bounds concurrent table formatting. Zero uses GOMAXPROCS.
	Workers int
}

// Service formats definition directories.
type Service struct {
	fs         filesystem.FileSystem
	scanner    *scanner.Scanner
	calculator checksum.Calculator
	logger     pbimodel.Logger
}

// NewService creates a polish service.
// Panics if fs or logger is nil.
func NewService(fs filesystem.FileSystem, logger pbimodel.Logger) *Service {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	calc := checksum.New()
	return &Service{
		fs:         fs,
		scanner:    scanner.NewScannerWithFS(calc, fs),
		calculator: calc,
		logger:     logger,
	}
}

type outcome struct {
	content []byte
	report  FileReport
}

// Polish formats every .tmdl file below defDir. Relationships whose tables
// or columns have no table document are dropped. Nothing is written when
// the relationship policy removes every relationship or when any file fails.
func (s *Service) Polish(ctx context.Context, defDir string, opts Options) (*Report, error) {
	if opts.Indent.Unit == "" {
		opts.Indent = tmdl.NewIndent("")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	scan, err := s.scanner.ScanDefinition(defDir)
	if err != nil {
		return nil, err
	}

	// Relationships may only reference the tables of this definition.
	tables := relationships.NewTables()
	for _, f := range scan.Tables() {
		if formatted(f) {
			assemble.Register(tables, f.Name, f.Content, opts.Indent)
		}
	}
	opts.Policy.Tables = tables

	report := &Report{}
	outcomes := make([]outcome, len(scan.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range scan.Files {
		if f.Kind != scanner.KindTable || f.JSONLike || !formatted(f) {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.formatTable(f, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, f := range scan.Files {
		switch {
		case !formatted(f):
			outcomes[i] = outcome{report: fileReport(f, StatusSkipped, "not a top-level or table document")}
		case f.JSONLike:
			s.logger.Verbose("Skipping JSON file %s", f.RelativePath)
			outcomes[i] = outcome{report: fileReport(f, StatusSkipped, "JSON content")}
		case f.Kind == scanner.KindTable:
			// formatted above
		case f.Kind == scanner.KindRelationships:
			out, res, err := s.formatRelationships(f, opts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.RelativePath, err)
			}
			report.Relationships = &res
			outcomes[i] = out
		default:
			outcomes[i] = s.compare(f, []byte(tmdl.Normalize(string(f.Content))))
		}
	}

	for _, o := range outcomes {
		report.Files = append(report.Files, o.report)
	}

	changed := report.Count(StatusChanged)
	if opts.Check {
		if changed > 0 {
			return report, fmt.Errorf("%w: %d file(s) would change", ErrUnformatted, changed)
		}
		return report, nil
	}

	for _, o := range outcomes {
		if o.report.Status != StatusChanged {
			continue
		}
		if err := s.fs.WriteFile(o.report.Path, o.content); err != nil {
			return report, fmt.Errorf("failed to write %s: %w", o.report.RelativePath, err)
		}
		s.logger.Verbose("Formatted %s", o.report.RelativePath)
	}
	return report, nil
}

// formatted reports whether f lies directly in the definition directory or
// in its tables folder. Cultures and other nested documents embed JSON and
// are left alone.
func formatted(f scanner.ModelFile) bool {
	dir := path.Dir(f.RelativePath)
	return dir == "." || dir == pbimodel.TablesDirName
}

func (s *Service) formatTable(f scanner.ModelFile, opts Options) outcome {
	out, err := assemble.Format(string(f.Content), assemble.Options{Indent: opts.Indent})
	if err != nil {
		// Not a table document; style normalization still applies.
		s.logger.Verbose("%s: %v, normalizing style only", f.RelativePath, err)
		return s.compare(f, []byte(tmdl.Normalize(string(f.Content))))
	}
	return s.compare(f, []byte(out))
}

func (s *Service) formatRelationships(f scanner.ModelFile, opts Options) (outcome, relationships.Result, error) {
	doc := tmdl.ParseRelationships(string(f.Content))
	res, err := relationships.Normalize(doc.Relationships, opts.Policy)
	if err != nil {
		return outcome{}, res, err
	}
	for _, d := range res.Dropped {
		s.logger.Verbose("Dropped relationship %s (%s)", d.Relationship.Pair(), d.Reason)
	}
	out := tmdl.RenderRelationships(pbimodel.RelationshipsDocument{Relationships: res.Relationships}, opts.Indent)
	return s.compare(f, []byte(out)), res, nil
}

func (s *Service) compare(f scanner.ModelFile, content []byte) outcome {
	if string(content) == string(f.Content) {
		return outcome{content: content, report: fileReport(f, StatusUnchanged, "")}
	}
	r := fileReport(f, StatusChanged, "")
	r.LayoutOnly = s.calculator.CalculateNormalized(content) == f.Checksum
	return outcome{content: content, report: r}
}

func fileReport(f scanner.ModelFile, status Status, reason string) FileReport {
	return FileReport{
		Path:         f.Path,
		RelativePath: f.RelativePath,
		Kind:         f.Kind,
		Status:       status,
		Reason:       reason,
	}
}
