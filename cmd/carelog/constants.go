package main

// Default limits for CLI commands.
const (
	DefaultListLimit    = 20
	MaxDeleteBatchSize  = 1000
	DefaultHistoryLimit = 50
)

// Valid output formats.
var (
	statsFormats  = []string{"text", "json", "csv", "markdown"}
	exportFormats = []string{"json", "csv"}
)

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
