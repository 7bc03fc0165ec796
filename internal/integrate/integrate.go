// Package integrate writes one generated table into a working PBIP folder
// and merges the relationships that touch it.
package integrate

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pbimodel/internal/assemble"
	"github.com/vvka-141/pbimodel/internal/columns"
	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// semanticModelDirs are tried in order when locating the semantic model
// inside a working folder copied from a template.
var semanticModelDirs = []string{"smtemplate.SemanticModel", "SemanticModel", "template.SemanticModel"}

// defaultSemanticModelDir is created when none of semanticModelDirs exists.
const defaultSemanticModelDir = "SemanticModel"

// Options are the rendering and relationship settings shared by every
// Integrate call of a service.
type Options struct {
	Indent            tmdl.Indent
	LineageTags       bool
	Policy            relationships.Policy
	AutoRelationships []relationships.Pair
}

// Request describes one table to integrate.
type Request struct {
	Table       string
	Columns     string // raw column spec in any accepted shape
	Partition   string // raw partition text, may be empty
	TemplateDir string // copied to WorkDir when WorkDir does not exist
	WorkDir     string

	// Triples are the extracted joins of the whole datasource; only those
	// touching Table are merged.
	Triples []pbimodel.RelationshipTriple

	// Required lists the columns the table must have. Missing ones are
	// reported, not fatal.
	Required []string
}

// Result reports what Integrate wrote.
type Result struct {
	TablePath         string
	ModelPath         string
	RelationshipsPath string
	Columns           columns.Result
	Missing           []string
	Relationships     relationships.Result
	RelationshipsSkip string // non-empty when the relationships file was left alone
}

// Service integrates tables. It is not safe for concurrent calls that share
// a WorkDir.
type Service struct {
	fs     filesystem.FileSystem
	logger pbimodel.Logger
	opts   Options
}

// NewService creates an integration service.
// Panics if fs or logger is nil.
func NewService(fs filesystem.FileSystem, logger pbimodel.Logger, opts Options) *Service {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if opts.Indent.Unit == "" {
		opts.Indent = tmdl.NewIndent("")
	}
	return &Service{fs: fs, logger: logger, opts: opts}
}

// Integrate writes tables/<Table>.tmdl, ensures model.tmdl and
// relationships.tmdl exist and re-normalizes the relationships document
// with the joins that touch the table.
//
// Column input that yields nothing fails with *pbimodel.InputShapeError
// before anything is written. A relationship policy that removes every
// relationship fails with *pbimodel.EmptyResultError after the table is
// written; the relationships file is then left unchanged.
func (s *Service) Integrate(req Request) (*Result, error) {
	if strings.TrimSpace(req.Table) == "" {
		return nil, fmt.Errorf("%w: table name is required", pbimodel.ErrInvalidConfig)
	}
	if req.WorkDir == "" {
		return nil, fmt.Errorf("%w: working directory is required", pbimodel.ErrInvalidConfig)
	}

	text, colRes, err := assemble.Table(req.Table, req.Columns, req.Partition, assemble.Options{
		Indent:      s.opts.Indent,
		LineageTags: s.opts.LineageTags,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range colRes.Warnings {
		s.logger.Info("Warning: %s", w)
	}
	s.logger.Verbose("Table %s: %d columns from %s input", req.Table, len(colRes.Columns), colRes.Shape)

	if err := s.copyTemplateIfMissing(req.TemplateDir, req.WorkDir); err != nil {
		return nil, err
	}

	semDir, err := s.ensureSemanticModel(req.WorkDir)
	if err != nil {
		return nil, err
	}
	defDir := filepath.Join(semDir, pbimodel.DefinitionDirName)
	tablesDir := filepath.Join(defDir, pbimodel.TablesDirName)
	res := &Result{
		TablePath:         filepath.Join(tablesDir, req.Table+pbimodel.TMDLExtension),
		ModelPath:         filepath.Join(defDir, pbimodel.ModelFileName),
		RelationshipsPath: filepath.Join(defDir, pbimodel.RelationshipsFileName),
		Columns:           colRes,
	}

	if err := s.fs.MkdirAll(tablesDir); err != nil {
		return nil, fmt.Errorf("failed to create tables directory: %w", err)
	}
	if err := s.ensureFile(res.ModelPath, "model\n"); err != nil {
		return nil, err
	}
	if err := s.ensureFile(res.RelationshipsPath, ""); err != nil {
		return nil, err
	}

	if err := s.fs.WriteFile(res.TablePath, []byte(text)); err != nil {
		return nil, fmt.Errorf("failed to write table %s: %w", req.Table, err)
	}
	s.logger.Verbose("Wrote %s", res.TablePath)

	if len(req.Required) > 0 {
		res.Missing = columns.Missing(req.Required, colRes.Columns)
		if len(res.Missing) > 0 {
			s.logger.Info("Warning: table %s is missing %d column(s) present in the source: %s",
				req.Table, len(res.Missing), strings.Join(res.Missing, ", "))
		}
	}

	if err := s.mergeRelationships(req, tablesDir, res); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) copyTemplateIfMissing(templateDir, workDir string) error {
	if filesystem.Exists(s.fs, workDir) {
		return nil
	}
	if templateDir == "" {
		return s.fs.MkdirAll(workDir)
	}
	// A manifest path names its template folder.
	if info, err := s.fs.Stat(templateDir); err == nil && !info.IsDir() {
		templateDir = filepath.Dir(templateDir)
	}
	if !filesystem.IsDir(s.fs, templateDir) {
		return &pbimodel.MissingTemplateError{Label: "template directory", Path: templateDir}
	}

	s.logger.Verbose("Copying template %s to %s", templateDir, workDir)
	if err := filesystem.CopyTree(s.fs, templateDir, s.fs, workDir, nil); err != nil {
		return fmt.Errorf("failed to copy template: %w", err)
	}
	return nil
}

func (s *Service) ensureSemanticModel(workDir string) (string, error) {
	if dir, ok := FindSemanticModel(s.fs, workDir); ok {
		return dir, nil
	}
	dir := filepath.Join(workDir, defaultSemanticModelDir)
	if err := s.fs.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("failed to create semantic model directory: %w", err)
	}
	return dir, nil
}

// FindSemanticModel returns the semantic model directory of a working
// folder, trying the template's placeholder names first.
func FindSemanticModel(fsys filesystem.FileSystemProvider, workDir string) (string, bool) {
	for _, name := range semanticModelDirs {
		dir := filepath.Join(workDir, name)
		if filesystem.IsDir(fsys, dir) {
			return dir, true
		}
	}
	return "", false
}

func (s *Service) ensureFile(p, content string) error {
	if filesystem.Exists(s.fs, p) {
		return nil
	}
	if err := s.fs.WriteFile(p, []byte(content)); err != nil {
		return fmt.Errorf("failed to create %s: %w", path.Base(filepath.ToSlash(p)), err)
	}
	return nil
}

// mergeRelationships combines the stored relationships with the joins
// touching the table whose other table already has a document, and the
// configured auto-relationships whose tables both exist. Relationships
// pointing at a missing table or column are dropped. The document is
// rewritten only when it changed.
func (s *Service) mergeRelationships(req Request, tablesDir string, res *Result) error {
	existing, err := s.fs.ReadFile(res.RelationshipsPath)
	if err != nil {
		return fmt.Errorf("failed to read relationships: %w", err)
	}
	if tmdl.IsJSONLike(existing) {
		res.RelationshipsSkip = "relationships file is JSON"
		s.logger.Info("Warning: %s is JSON, relationships not merged", res.RelationshipsPath)
		return nil
	}

	// The table document is already written, so it registers its new columns.
	tables, err := assemble.LoadTables(s.fs, tablesDir, s.opts.Indent)
	if err != nil {
		return err
	}
	s.logger.Verbose("Tables present: %s", strings.Join(tables.Names(), ", "))

	merged := tmdl.ParseRelationships(string(existing)).Relationships
	var touching []pbimodel.RelationshipTriple
	for _, t := range req.Triples {
		if !t.Touches(req.Table) {
			continue
		}
		if !tables.Has(t.LeftTable) || !tables.Has(t.RightTable) {
			s.logger.Verbose("Deferring join %s.%s=%s.%s until both tables exist", t.LeftTable, t.LeftColumn, t.RightTable, t.RightColumn)
			continue
		}
		touching = append(touching, t)
	}
	merged = append(merged, relationships.FromTriples(touching)...)
	merged = append(merged, s.autoRelationships(req.Table, tables)...)

	policy := s.opts.Policy
	policy.Tables = tables
	norm, err := relationships.Normalize(merged, policy)
	res.Relationships = norm
	for _, d := range norm.Dropped {
		s.logger.Verbose("Dropped relationship %s (%s)", d.Relationship.Pair(), d.Reason)
	}
	if err != nil {
		var empty *pbimodel.EmptyResultError
		if errors.As(err, &empty) {
			res.RelationshipsSkip = "every relationship was filtered out"
		}
		return err
	}

	out := tmdl.RenderRelationships(pbimodel.RelationshipsDocument{Relationships: norm.Relationships}, s.opts.Indent)
	if out == string(existing) {
		return nil
	}
	if err := s.fs.WriteFile(res.RelationshipsPath, []byte(out)); err != nil {
		return fmt.Errorf("failed to write relationships: %w", err)
	}
	s.logger.Verbose("Wrote %d relationship(s) to %s", len(norm.Relationships), res.RelationshipsPath)
	return nil
}

func (s *Service) autoRelationships(table string, tables *relationships.Tables) []pbimodel.RelationshipRecord {
	var out []pbimodel.RelationshipRecord
	for _, p := range s.opts.AutoRelationships {
		if p.From.Table != table && p.To.Table != table {
			continue
		}
		if !tables.Has(p.From.Table) || !tables.Has(p.To.Table) {
			continue
		}
		out = append(out, pbimodel.RelationshipRecord{
			FromTable: p.From.Table, FromColumn: p.From.Column,
			ToTable: p.To.Table, ToColumn: p.To.Column,
		})
	}
	return out
}
