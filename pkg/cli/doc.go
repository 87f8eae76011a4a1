// Package cli provides common utilities for the livedesk command-line
// tool.
//
// This package includes:
//   - Configuration management (contexts)
//   - Output formatting (JSON, YAML, raw)
//   - Request file loading (YAML/JSON)
//   - Terminal styling for the live session view
//
// Configuration is stored in ~/.livedesk/, supporting multiple contexts
// similar to kubectl.
package cli
