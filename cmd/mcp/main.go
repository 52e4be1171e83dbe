package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/netopslab/vmx-deploy/cmd/mcp/tools"
)

func main() {
	cfg := LoadConfig()

	s := server.NewMCPServer(
		"vmx-deploy-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.RegisterAWSTools(s, cfg.AWSRegion, cfg.AWSProfile)
	if cfg.HasMeraki() {
		tools.RegisterMerakiTools(s, cfg.MerakiAPIKey, cfg.MerakiOrgID)
	}

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
