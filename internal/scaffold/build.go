package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pbimodel/internal/assemble"
	"github.com/vvka-141/pbimodel/internal/checksum"
	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/files/scanner"
	"github.com/vvka-141/pbimodel/internal/integrate"
	"github.com/vvka-141/pbimodel/internal/placeholder"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Names of the assets inside a template directory.
const (
	ManifestTemplate      = "PBIPTemplate.pbip"
	ReportTemplate        = "rtemplate.Report"
	SemanticModelTemplate = "smtemplate.SemanticModel"
	PBISMFileName         = "definition.pbism"
	DiagramLayoutFileName = "diagramLayout.json"
	CulturesDirName       = "cultures"
)

// BuildRequest describes one PBIP assembly.
type BuildRequest struct {
	TemplateDir string // project template tree
	OutputDir   string // parent of the working folder and of the final folder
	Name        string // project name, with or without the .pbip extension
	Force       bool   // remove the final folder first

	// Indent renders a relationships document that lost relationships.
	Indent tmdl.Indent
}

// BuildResult lists what Build produced.
type BuildResult struct {
	Root               string
	Manifest           string
	Report             string
	SemanticModel      string
	Tables             []string
	TablesFromTemplate bool

	// Relationships counts the relationships written. Relationships whose
	// table or column is not among the final tables are listed in Dropped.
	Relationships int
	Dropped       []relationships.Drop
}

// BaseName strips a trailing .pbip from a project name.
func BaseName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(name), ".pbip") {
		return name[:len(name)-len(".pbip")]
	}
	return name
}

// WorkDir is the working folder integration writes into for name.
func WorkDir(outputDir, name string) string {
	return filepath.Join(outputDir, BaseName(name)+".pbip")
}

// Build assembles OUT/<Base>/ from the template tree and the generated
// definition in the working folder. Generated documents win over template
// ones unless they are JSON; model.tmdl always comes from the template with
// its table placeholders resolved from the final tables.
func (s *Scaffolder) Build(req BuildRequest) (*BuildResult, error) {
	base := BaseName(req.Name)
	if base == "" {
		return nil, fmt.Errorf("%w: project name is required", pbimodel.ErrInvalidConfig)
	}
	if !filesystem.IsDir(s.fs, req.TemplateDir) {
		return nil, &pbimodel.MissingTemplateError{Label: "template root", Path: req.TemplateDir}
	}

	tplSem := filepath.Join(req.TemplateDir, SemanticModelTemplate)
	tplDef := filepath.Join(tplSem, pbimodel.DefinitionDirName)

	root := filepath.Join(req.OutputDir, base)
	res := &BuildResult{
		Root:          root,
		Manifest:      filepath.Join(root, base+".pbip"),
		Report:        filepath.Join(root, base+".Report"),
		SemanticModel: filepath.Join(root, base+".SemanticModel"),
	}
	outDef := filepath.Join(res.SemanticModel, pbimodel.DefinitionDirName)
	outTables := filepath.Join(outDef, pbimodel.TablesDirName)

	if req.Force {
		s.logger.Verbose("Removing %s", root)
		if err := s.fs.RemoveAll(root); err != nil {
			return nil, fmt.Errorf("failed to remove output folder: %w", err)
		}
	}
	// Tables are rebuilt from scratch so placeholders only list current ones.
	if err := s.fs.RemoveAll(outTables); err != nil {
		return nil, fmt.Errorf("failed to clear tables folder: %w", err)
	}
	for _, d := range []string{res.Report, outTables, filepath.Join(outDef, CulturesDirName)} {
		if err := s.fs.MkdirAll(d); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	manifestValues := placeholder.ManifestValues(base)
	resolveManifest := func(_ string, content []byte) []byte {
		return []byte(placeholder.Resolve(string(content), manifestValues))
	}

	if err := s.copyRequired(filepath.Join(req.TemplateDir, ManifestTemplate), res.Manifest, ManifestTemplate, resolveManifest); err != nil {
		return nil, err
	}

	tplReport := filepath.Join(req.TemplateDir, ReportTemplate)
	if !filesystem.IsDir(s.fs, tplReport) {
		return nil, &pbimodel.MissingTemplateError{Label: ReportTemplate, Path: tplReport}
	}
	if err := filesystem.CopyTree(s.fs, tplReport, s.fs, res.Report, resolveManifest); err != nil {
		return nil, fmt.Errorf("failed to copy report: %w", err)
	}

	tplCultures := filepath.Join(tplDef, CulturesDirName)
	if !filesystem.IsDir(s.fs, tplCultures) {
		return nil, &pbimodel.MissingTemplateError{Label: "template cultures folder", Path: tplCultures}
	}
	if err := filesystem.CopyTree(s.fs, tplCultures, s.fs, filepath.Join(outDef, CulturesDirName), nil); err != nil {
		return nil, fmt.Errorf("failed to copy cultures: %w", err)
	}

	genDef := ""
	if semDir, ok := integrate.FindSemanticModel(s.fs, WorkDir(req.OutputDir, base)); ok {
		genDef = filepath.Join(semDir, pbimodel.DefinitionDirName)
		s.logger.Verbose("Using generated definition %s", genDef)
	}

	src := s.preferGenerated(genDef, tplDef, pbimodel.DatabaseFileName)
	if err := s.copyRequired(src, filepath.Join(outDef, pbimodel.DatabaseFileName), pbimodel.DatabaseFileName+" (generated/template)", nil); err != nil {
		return nil, err
	}

	if err := s.copyTables(genDef, tplDef, outTables, res); err != nil {
		return nil, err
	}
	if err := s.copyRelationships(genDef, tplDef, outDef, req.Indent, res); err != nil {
		return nil, err
	}

	names, err := scanner.NewScannerWithFS(checksum.New(), s.fs).TableNames(outTables)
	if err != nil {
		return nil, err
	}
	res.Tables = names

	resolveModel := func(_ string, content []byte) []byte {
		return []byte(placeholder.ResolveModel(string(content), names))
	}
	outModel := filepath.Join(outDef, pbimodel.ModelFileName)
	if err := s.copyRequired(filepath.Join(tplDef, pbimodel.ModelFileName), outModel, "template "+pbimodel.ModelFileName, resolveModel); err != nil {
		return nil, err
	}
	if model, err := s.fs.ReadFile(outModel); err == nil {
		if left := placeholder.Unresolved(string(model)); len(left) > 0 {
			s.logger.Info("Warning: unresolved placeholders in %s: %s", pbimodel.ModelFileName, strings.Join(left, ", "))
		}
	}

	for _, name := range []string{PBISMFileName, DiagramLayoutFileName} {
		if err := s.copyRequired(filepath.Join(tplSem, name), filepath.Join(res.SemanticModel, name), name, nil); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// preferGenerated returns the generated file when it exists and is not JSON.
func (s *Scaffolder) preferGenerated(genDef, tplDef, name string) string {
	if genDef != "" {
		p := filepath.Join(genDef, name)
		if content, err := s.fs.ReadFile(p); err == nil && !tmdl.IsJSONLike(content) {
			return p
		}
	}
	return filepath.Join(tplDef, name)
}

// copyRelationships writes the relationships document that belongs to the
// final tables: the generated one, unless the tables came from the
// template. Relationships pointing at a missing table or column are dropped.
func (s *Scaffolder) copyRelationships(genDef, tplDef, outDef string, in tmdl.Indent, res *BuildResult) error {
	name := pbimodel.RelationshipsFileName
	src := filepath.Join(tplDef, name)
	if !res.TablesFromTemplate {
		src = s.preferGenerated(genDef, tplDef, name)
	}
	content, err := s.fs.ReadFile(src)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return &pbimodel.MissingTemplateError{Label: name + " (generated/template)", Path: src}
		}
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	if !tmdl.IsJSONLike(content) {
		if in.Unit == "" {
			in = tmdl.NewIndent("")
		}
		tables, err := assemble.LoadTables(s.fs, filepath.Join(outDef, pbimodel.TablesDirName), in)
		if err != nil {
			return err
		}
		policy := relationships.DefaultPolicy()
		policy.Tables = tables
		norm, err := relationships.Normalize(tmdl.ParseRelationships(string(content)).Relationships, policy)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		res.Relationships = len(norm.Relationships)
		res.Dropped = norm.Dropped
		if len(norm.Dropped) > 0 {
			for _, d := range norm.Dropped {
				s.logger.Info("Warning: dropped relationship %s (%s)", d.Relationship.Pair(), d.Reason)
			}
			content = []byte(tmdl.RenderRelationships(pbimodel.RelationshipsDocument{Relationships: norm.Relationships}, in))
		}
	}

	dst := filepath.Join(outDef, name)
	if err := s.fs.WriteFile(dst, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func (s *Scaffolder) copyTables(genDef, tplDef, outTables string, res *BuildResult) error {
	copied := 0
	if genDef != "" {
		n, err := s.copyTableFiles(filepath.Join(genDef, pbimodel.TablesDirName), outTables)
		if err != nil {
			return err
		}
		copied = n
	}
	if copied > 0 {
		return nil
	}

	tplTables := filepath.Join(tplDef, pbimodel.TablesDirName)
	if !filesystem.IsDir(s.fs, tplTables) {
		return &pbimodel.MissingTemplateError{Label: "template tables folder", Path: tplTables}
	}
	n, err := s.copyTableFiles(tplTables, outTables)
	if err != nil {
		return err
	}
	if n == 0 {
		return &pbimodel.MissingTemplateError{Label: "table documents", Path: tplTables}
	}
	res.TablesFromTemplate = true
	s.logger.Info("Warning: no generated tables found, using %d template table(s)", n)
	return nil
}

// copyTableFiles copies the non-JSON .tmdl files directly in src.
func (s *Scaffolder) copyTableFiles(src, dst string) (int, error) {
	if !filesystem.IsDir(s.fs, src) {
		return 0, nil
	}
	infos, err := s.fs.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", src, err)
	}
	n := 0
	for _, info := range infos {
		if info.IsDir() || !scanner.IsModelFile(info.Name()) {
			continue
		}
		content, err := s.fs.ReadFile(filepath.Join(src, info.Name()))
		if err != nil {
			return n, fmt.Errorf("failed to read %s: %w", info.Name(), err)
		}
		if tmdl.IsJSONLike(content) {
			s.logger.Verbose("Skipping JSON table %s", info.Name())
			continue
		}
		if err := s.fs.WriteFile(filepath.Join(dst, info.Name()), content); err != nil {
			return n, fmt.Errorf("failed to write %s: %w", info.Name(), err)
		}
		n++
	}
	return n, nil
}

func (s *Scaffolder) copyRequired(src, dst, label string, transform func(string, []byte) []byte) error {
	content, err := s.fs.ReadFile(src)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return &pbimodel.MissingTemplateError{Label: label, Path: src}
		}
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if transform != nil {
		content = transform(filepath.Base(src), content)
	}
	if err := s.fs.WriteFile(dst, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
