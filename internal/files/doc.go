// Package files groups the file-handling sub-packages.
//
//   - filesystem: filesystem abstraction with OS, in-memory and embedded implementations
//   - scanner: discovery and classification of model-definition files
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/pbimodel/internal/checksum"
//	    "github.com/vvka-141/pbimodel/internal/files/scanner"
//	)
//
//	s := scanner.NewScanner(checksum.New())
//	result, err := s.ScanDefinition("./OUT_PBIP/Sales/Sales.SemanticModel/definition")
package files
