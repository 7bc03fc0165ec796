package scanner

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/pbimodel/internal/checksum"
	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Kind classifies a definition file by its location and name.
type Kind string

const (
	KindTable         Kind = "table"
	KindRelationships Kind = "relationships"
	KindModel         Kind = "model"
	KindDatabase      Kind = "database"
	KindCulture       Kind = "culture"
	KindOther         Kind = "other"
)

// ModelFile is one discovered definition file.
type ModelFile struct {
	Path         string // path as passed to the filesystem
	RelativePath string // forward-slash path below the scanned directory
	Name         string // file name without extension
	Kind         Kind
	JSONLike     bool
	Content      []byte
	Checksum     string // normalized
	ChecksumRaw  string
}

// ScanResult is the outcome of ScanDefinition.
type ScanResult struct {
	Files []ModelFile
}

// Tables returns the table files in path order.
func (r ScanResult) Tables() []ModelFile {
	return r.ofKind(KindTable)
}

func (r ScanResult) ofKind(kind Kind) []ModelFile {
	var out []ModelFile
	for _, f := range r.Files {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Scanner discovers definition files. It is safe for concurrent use as long
// as the calculator and filesystem provider are.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner over the OS filesystem.
// Panics if calculator is nil.
func NewScanner(calculator checksum.Calculator) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: filesystem.NewOSFileSystem(),
	}
}

// NewScannerWithFS creates a scanner with a custom filesystem provider.
// Panics if calculator or fsProvider is nil.
func NewScannerWithFS(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// ScanDefinition recursively scans a definition directory for .tmdl files.
// Files are returned in path order.
func (s *Scanner) ScanDefinition(dir string) (ScanResult, error) {
	d, err := s.fsProvider.Open(dir)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to open directory: %w", err)
	}

	var files []ModelFile
	err = d.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() || !IsModelFile(file.Info().Name()) {
			return nil
		}

		content, err := file.ReadContent()
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", file.RelativePath(), err)
		}

		rel := filepath.ToSlash(file.RelativePath())
		files = append(files, ModelFile{
			Path:         filepath.Join(dir, filepath.FromSlash(rel)),
			RelativePath: rel,
			Name:         stem(rel),
			Kind:         classify(rel),
			JSONLike:     tmdl.IsJSONLike(content),
			Content:      content,
			Checksum:     s.calculator.CalculateNormalized(content),
			ChecksumRaw:  s.calculator.CalculateRaw(content),
		})
		return nil
	})
	if err != nil {
		return ScanResult{}, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return ScanResult{Files: files}, nil
}

// TableNames lists the table names of the non-JSON .tmdl files directly in
// tablesDir, sorted by file name.
func (s *Scanner) TableNames(tablesDir string) ([]string, error) {
	infos, err := s.fsProvider.ReadDir(tablesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() || !IsModelFile(info.Name()) {
			continue
		}
		content, err := s.fsProvider.ReadFile(filepath.Join(tablesDir, info.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", info.Name(), err)
		}
		if tmdl.IsJSONLike(content) {
			continue
		}
		names = append(names, stem(info.Name()))
	}
	return names, nil
}

// IsModelFile reports whether name has the definition file extension.
func IsModelFile(name string) bool {
	return strings.EqualFold(path.Ext(name), pbimodel.TMDLExtension)
}

func stem(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, path.Ext(base))
}

func classify(rel string) Kind {
	dir := path.Dir(rel)
	base := strings.ToLower(path.Base(rel))
	switch {
	case strings.EqualFold(path.Base(dir), pbimodel.TablesDirName):
		return KindTable
	case strings.EqualFold(path.Base(dir), "cultures"):
		return KindCulture
	case base == strings.ToLower(pbimodel.RelationshipsFileName):
		return KindRelationships
	case base == strings.ToLower(pbimodel.ModelFileName):
		return KindModel
	case base == strings.ToLower(pbimodel.DatabaseFileName):
		return KindDatabase
	}
	return KindOther
}
