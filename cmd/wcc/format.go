package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"wcc/internal/pipeline"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// CacheStatsCLI is the CLI-facing cache stats payload.
type CacheStatsCLI struct {
	Path       string `json:"path"`
	Components int    `json:"components"`
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *pipeline.Report:
		return formatReportHuman(v)
	case *CacheStatsCLI:
		return formatCacheStatsHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatReportHuman renders a run report for terminals.
func formatReportHuman(r *pipeline.Report) (string, error) {
	var b strings.Builder

	mode := "generate"
	if r.DryRun {
		mode = "dry-run"
	}
	b.WriteString(fmt.Sprintf("WCC %s (%s)\n", mode, strings.Join(r.Targets, ", ")))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Root: %s\n\n", r.Root))

	var created, updated, unchanged int
	for _, comp := range r.Components {
		label := comp.ClassName
		if label == "" {
			label = comp.SourcePath
		}
		b.WriteString(label)
		if comp.TagName != "" {
			b.WriteString(fmt.Sprintf(" <%s>", comp.TagName))
		}
		b.WriteString("\n")

		for _, ch := range comp.Changes {
			switch ch.Status {
			case pipeline.StatusCreated:
				created++
			case pipeline.StatusUpdated:
				updated++
			default:
				unchanged++
			}
			b.WriteString(fmt.Sprintf("  %-9s %s (%s)\n", ch.Status, ch.FilePath, ch.Reason))
		}
		for _, w := range comp.Diagnostics.Warnings {
			b.WriteString(fmt.Sprintf("  warning: %s\n", w))
		}
		for _, e := range comp.Diagnostics.Errors {
			b.WriteString(fmt.Sprintf("  error [%s]: %s\n", e.Code, e.Message))
		}
	}

	for _, w := range r.Diagnostics.Warnings {
		b.WriteString(fmt.Sprintf("warning: %s\n", w))
	}
	for _, e := range r.Diagnostics.Errors {
		b.WriteString(fmt.Sprintf("error [%s]: %s\n", e.Code, e.Message))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Components: %d | created: %d, updated: %d, unchanged: %d\n",
		len(r.Components), created, updated, unchanged))
	b.WriteString(fmt.Sprintf("Status: %s\n", r.Status))
	if r.Halted {
		b.WriteString("Run halted on first error (use --continue-on-error to keep going)\n")
	}

	return b.String(), nil
}

// formatCacheStatsHuman renders cache stats for terminals.
func formatCacheStatsHuman(s *CacheStatsCLI) (string, error) {
	var b strings.Builder
	b.WriteString("Generation Cache\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Path: %s\n", s.Path))
	b.WriteString(fmt.Sprintf("Cached components: %d\n", s.Components))
	return b.String(), nil
}
