package scaffold

import (
	"embed"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

//go:embed all:templates
var templatesFS embed.FS

// GetTemplatesFS returns the embedded templates filesystem for testing purposes.
// This allows tests to access embedded templates without filesystem I/O.
func GetTemplatesFS() embed.FS {
	return templatesFS
}

// managedFiles may exist in a target directory without making it non-empty.
var managedFiles = map[string]bool{
	pbimodel.ConfigFileName: true,
	".env":                  true,
}

// Scaffolder creates projects from the embedded templates and assembles
// final PBIP folders from a project's template tree.
type Scaffolder struct {
	fs     filesystem.FileSystem
	logger pbimodel.Logger
}

// NewScaffolder creates a new Scaffolder instance.
// Panics if fs or logger is nil.
func NewScaffolder(fs filesystem.FileSystem, logger pbimodel.Logger) *Scaffolder {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scaffolder{fs: fs, logger: logger}
}

// CreateProject writes the named embedded template into targetPath,
// replacing {{PROJECT_NAME}} in every file.
func (s *Scaffolder) CreateProject(projectName, templateName, targetPath string) error {
	templatePath := path.Join("templates", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return fmt.Errorf("template '%s' not found: %w", templateName, err)
	}

	isEmpty, err := s.isDirectoryEmpty(targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return fmt.Errorf("target directory '%s' is not empty\n\npbimodel init requires an empty directory to avoid overwriting existing files.\n\nOptions:\n• Choose a different location\n• Remove existing files manually\n• Use a new directory name", targetPath)
	}

	s.logger.Verbose("Creating project '%s' at %s with template '%s'", projectName, targetPath, templateName)

	src := filesystem.NewEmbedFileSystem(templatesFS, templatePath)
	err = filesystem.CopyTree(src, ".", s.fs, targetPath, func(rel string, content []byte) []byte {
		s.logger.Verbose("Creating file: %s", rel)
		return []byte(processTemplate(string(content), projectName))
	})
	if err != nil {
		return fmt.Errorf("failed to copy template files: %w", err)
	}

	s.logger.Verbose("Project created successfully")
	return nil
}

// processTemplate replaces template variables in content
func processTemplate(content, projectName string) string {
	return strings.ReplaceAll(content, "{{PROJECT_NAME}}", projectName)
}

// ListTemplates returns available template names
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}

	return templates, nil
}

// isDirectoryEmpty checks if a directory is empty or doesn't exist.
// The config file and .env do not count.
func (s *Scaffolder) isDirectoryEmpty(dir string) (bool, error) {
	info, err := s.fs.Stat(dir)
	if filesystem.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}
	for _, e := range entries {
		if !managedFiles[e.Name()] {
			return false, nil
		}
	}
	return true, nil
}

// BuildFileTree renders the directory below root as a tree.
func BuildFileTree(fsys filesystem.FileSystemProvider, root string) (string, error) {
	var sb strings.Builder
	sb.WriteString(filepath.ToSlash(root) + "/\n")
	if err := writeTree(&sb, fsys, root, ""); err != nil {
		return "", fmt.Errorf("failed to build file tree: %w", err)
	}
	return sb.String(), nil
}

func writeTree(sb *strings.Builder, fsys filesystem.FileSystemProvider, dir, indent string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for i, e := range entries {
		branch, next := "├── ", "│   "
		if i == len(entries)-1 {
			branch, next = "└── ", "    "
		}
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		sb.WriteString(indent + branch + name + "\n")
		if e.IsDir() {
			if err := writeTree(sb, fsys, filepath.Join(dir, e.Name()), indent+next); err != nil {
				return err
			}
		}
	}
	return nil
}
