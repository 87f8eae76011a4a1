// Package main provides the livedesk CLI tool.
//
// Usage:
//
//	livedesk [flags] <command> [args]
//
// Commands:
//
//	run      - Start a live voice + screen session
//	speak    - One-shot text-to-speech synthesis
//	describe - Describe an image with the model
//	config   - Configuration management
//	devices  - List audio devices
//	version  - Print version information
//
// Configuration:
//
//	The CLI stores configuration in ~/.livedesk/
//	Use 'livedesk config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/glintlabs/livedesk/cmd/livedesk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
