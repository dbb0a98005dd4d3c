package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davidahmann/manifestkit/core/capture"
)

// stringList collects a repeatable flag.
type stringList []string

func (list *stringList) String() string {
	return strings.Join(*list, ",")
}

func (list *stringList) Set(value string) error {
	*list = append(*list, value)
	return nil
}

func runCapture(arguments []string) int {
	arguments = reorderInterspersedFlags(arguments, map[string]bool{
		"fixture-id":        true,
		"domain":            true,
		"description":       true,
		"origin":            true,
		"command":           true,
		"source-path":       true,
		"tool-version":      true,
		"redaction-profile": true,
		"capture-time":      true,
		"output":            true,
		"log":               true,
		"event":             true,
		"host-id":           true,
		"exclude":           true,
	})
	flagSet := flag.NewFlagSet("capture", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var fixtureID, domain, description, origin string
	var redactionProfile, captureTime, output, logPath, event, hostID string
	var commands, sourcePaths, toolVersions, excludes stringList
	var noLog bool
	flagSet.StringVar(&fixtureID, "fixture-id", "", "unique fixture identifier (generated when omitted)")
	flagSet.StringVar(&domain, "domain", "", "fixture domain")
	flagSet.StringVar(&description, "description", "", "fixture description")
	flagSet.StringVar(&origin, "origin", "manual", "source origin")
	flagSet.Var(&commands, "command", "source command (repeatable)")
	flagSet.Var(&sourcePaths, "source-path", "source path (repeatable)")
	flagSet.Var(&toolVersions, "tool-version", "tool version key=value (repeatable)")
	flagSet.StringVar(&redactionProfile, "redaction-profile", "safe", "minimal|safe|forensic|custom")
	flagSet.StringVar(&captureTime, "capture-time", "", "RFC3339 timestamp (default: now UTC)")
	flagSet.StringVar(&output, "output", capture.DefaultOutputPath, "manifest output path (relative to fixture dir if not absolute)")
	flagSet.StringVar(&logPath, "log", capture.DefaultLogPath, "JSONL log path (relative to fixture dir if not absolute)")
	flagSet.StringVar(&event, "event", capture.DefaultEvent, "log event name")
	flagSet.StringVar(&hostID, "host-id", "", "optional host identifier for log correlation")
	flagSet.Var(&excludes, "exclude", "glob to exclude (repeatable, relative to fixture dir)")
	flagSet.BoolVar(&noLog, "no-log", false, "disable JSONL logging")
	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidInput
	}
	if flagSet.NArg() != 1 {
		printUsage()
		return exitInvalidInput
	}

	parsedToolVersions, err := parseToolVersions(toolVersions)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return exitInvalidInput
	}

	result, err := capture.Run(capture.Options{
		FixtureDir:       flagSet.Arg(0),
		FixtureID:        fixtureID,
		Domain:           domain,
		Description:      description,
		Origin:           origin,
		Command:          commands,
		SourcePaths:      sourcePaths,
		ToolVersions:     parsedToolVersions,
		RedactionProfile: redactionProfile,
		CaptureTime:      captureTime,
		OutputPath:       output,
		LogPath:          logPath,
		Event:            event,
		HostID:           hostID,
		Excludes:         excludes,
		DisableLog:       noLog,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return exitValidationFailed
	}
	fmt.Printf("captured %d artifacts to %s\n", len(result.Manifest.Artifacts), result.ManifestPath)
	return exitOK
}

func parseToolVersions(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	parsed := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !found || key == "" || value == "" {
			return nil, fmt.Errorf("tool version must be key=value, got: %s", entry)
		}
		parsed[key] = value
	}
	return parsed, nil
}
