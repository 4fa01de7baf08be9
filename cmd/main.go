package main

import (
	"os"

	"github.com/richard-senior/goalgorithm-mcp/internal/logger"
	"github.com/richard-senior/goalgorithm-mcp/pkg/server"
	"github.com/richard-senior/goalgorithm-mcp/pkg/util/goalg"
)

func main() {
	// Configure logging
	logger.SetShowDateTime(true)

	// Stdout belongs to the JSON-RPC transport so logs go to file
	logger.SetLogOutput('f')

	logger.Info("Starting github.com/richard-senior/goalgorithm-mcp application")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "clear-cache":
			if err := goalg.ClearCache(); err != nil {
				logger.Error("Failed to clear cache:", err)
				os.Exit(1)
			}
			logger.Info("Cache cleared")
			return
		default:
			logger.Warn("Unknown command line argument:", os.Args[1])
		}
	}

	if err := goalg.ValidateConfig(goalg.Config); err != nil {
		logger.Error("Invalid configuration:", err)
		os.Exit(1)
	}

	// Initialize the MCP server singleton
	s := server.GetInstance()

	logger.Info("Starting MCP server...")
	if err := s.Start(); err != nil {
		logger.Error("Server error:", err)
		os.Exit(1)
	}

	logger.Info("MCP server shutting down")
}
