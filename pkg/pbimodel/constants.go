package pbimodel

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitInputShape      = 20 // Column input yielded no usable columns
	ExitEmptyResult     = 21 // Relationship filtering removed every relationship
	ExitMissingTemplate = 22 // Required template asset not found
)

const (
	// DefaultIndent is one indentation level in rendered documents.
	DefaultIndent = "  "

	// ConfigFileName is the project configuration file looked up in the project root.
	ConfigFileName = "pbimodel.yaml"

	// DefaultTemplateDir is the template directory name under the project root.
	DefaultTemplateDir = "pbip_template"

	// DefaultOutputDir is the output directory name under the project root.
	DefaultOutputDir = "OUT_PBIP"

	// DefaultPBIPName is used when no project name is configured.
	DefaultPBIPName = "SampleTableau"

	// TableAnnotation is the trailing marker written once per table document.
	TableAnnotation = "annotation PBI_ResultType = Table"

	// PartitionMode is the only partition mode this tool emits.
	PartitionMode = "import"

	// DefaultCrossFilterValue is written when the cross-filter policy forces a value.
	DefaultCrossFilterValue = "oneDirection"

	// TMDLExtension is the file extension of model-definition documents.
	TMDLExtension = ".tmdl"

	// RelationshipsFileName is the relationships document inside a definition directory.
	RelationshipsFileName = "relationships.tmdl"

	// ModelFileName is the model document inside a definition directory.
	ModelFileName = "model.tmdl"

	// DatabaseFileName is the database document inside a definition directory.
	DatabaseFileName = "database.tmdl"

	// TablesDirName is the directory holding one document per table.
	TablesDirName = "tables"

	// DefinitionDirName is the directory holding the model definition inside a semantic model.
	DefinitionDirName = "definition"
)

// DefaultDateTablePrefixes name the tables the BI tool generates for
// auto date/time hierarchies. Matched case-insensitively.
var DefaultDateTablePrefixes = []string{"LocalDateTable_", "DateTableTemplate_"}
