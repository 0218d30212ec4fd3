// Command manifest-mcp is an MCP (Model Context Protocol) server that exposes
// cargo-clearance manifest rendering to AI assistants.
//
// # Installation
//
//	go install github.com/lading/manifest/cmd/manifest-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "manifest": {
//	      "command": "manifest-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - render_manifest: Render a single manifest record to PDF
//   - render_batch: Paginate and render a batch of records to PDF
//   - export_html: Export a manifest as a standalone HTML page
//   - preview_layout: Resolve field layout and screen scale without rendering
//   - compute_scale: Compute the page scale for a canvas and target mode
//   - template_info: Validate a template and report its layout
//
// # Available Resources
//
//   - manifest://template-schema : Template JSON schema reference
//   - manifest://modes : Target mode and scaling reference
package main

import (
	"fmt"
	"os"

	"github.com/lading/manifest/mcp"
)

func main() {
	server := mcp.NewServer()

	if err := mcp.RegisterDefaultTools(server); err != nil {
		fmt.Fprintf(os.Stderr, "manifest-mcp: %v\n", err)
		os.Exit(1)
	}
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "manifest-mcp: %v\n", err)
		os.Exit(1)
	}
}
