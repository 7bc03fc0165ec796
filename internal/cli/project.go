package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/vvka-141/pbimodel/internal/config"
	"github.com/vvka-141/pbimodel/internal/logging"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/scaffold"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// project is a loaded project directory with its paths resolved.
type project struct {
	dir    string
	cfg    *config.ProjectConfig
	logger *logging.ConsoleLogger
}

// loadProject loads godotenv and project configuration. Environment
// variables override the file; flags applied by callers override both.
func loadProject(dir string, verbose bool) (*project, error) {
	logger := logging.NewConsoleLogger(verbose)

	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err == nil {
		logger.Verbose("Loaded %s", envPath)
	}

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &project{dir: dir, cfg: cfg, logger: logger}, nil
}

// path resolves p against the project directory unless it is absolute.
func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

func (p *project) templateDir() string { return p.path(p.cfg.TemplateDir) }
func (p *project) outputDir() string   { return p.path(p.cfg.OutputDir) }
func (p *project) indent() tmdl.Indent { return tmdl.NewIndent(p.cfg.Indent) }

// workDir is the folder integration writes into.
func (p *project) workDir() string {
	return scaffold.WorkDir(p.outputDir(), p.cfg.PBIPName)
}

// policy builds the relationship policy, replacing the configured keep-list
// when keep is non-empty.
func (p *project) policy(keep string) (relationships.Policy, error) {
	pol, err := p.cfg.RelationshipPolicy()
	if err != nil {
		return pol, err
	}
	if keep == "" {
		return pol, nil
	}
	pairs, errs := relationships.ParseKeepList(keep)
	if len(errs) > 0 {
		return pol, fmt.Errorf("%w: %v", pbimodel.ErrInvalidConfig, errs[0])
	}
	pol.Keep = pairs
	return pol, nil
}

// reportEmptyResult prints the detected pairs when a filter removed every
// relationship.
func reportEmptyResult(logger pbimodel.Logger, err *pbimodel.EmptyResultError) {
	for _, line := range relationships.Diagnostic(err) {
		logger.Error("%s", line)
	}
}
