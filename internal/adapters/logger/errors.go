package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer describes an error carrying key/value context, as zerr.Error does.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain from the outermost error inwards.
// The walk stops at the first error that is not a zerr error, whose full text is kept.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders the chain as an "Error:" headline followed by a "Caused by:" list.
func formatErrorEntries(entries []ErrorEntry) string {
	lines := make([]string, 0, len(entries)*2)

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		head, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range sortedKeys(entry.Metadata) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
