package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ralt/sdkpkg/internal/models"
)

// WriteStanzas writes one "Key: value" block per package, separated by
// blank lines
func WriteStanzas(w io.Writer, summaries []models.PackageSummary) error {
	var buf bytes.Buffer

	for _, s := range summaries {
		// Required fields
		fmt.Fprintf(&buf, "Kind: %s\n", s.Kind)
		fmt.Fprintf(&buf, "Name: %s\n", s.Name)
		fmt.Fprintf(&buf, "Revision: %d\n", s.Revision)

		// Optional fields
		if s.Os != "" {
			fmt.Fprintf(&buf, "Os: %s\n", s.Os)
		}
		if s.Arch != "" {
			fmt.Fprintf(&buf, "Arch: %s\n", s.Arch)
		}
		if s.Path != "" {
			fmt.Fprintf(&buf, "Path: %s\n", s.Path)
		}
		if s.License != "" {
			fmt.Fprintf(&buf, "License: %s\n", s.License)
		}
		if s.Obsolete {
			buf.WriteString("Obsolete: yes\n")
		}
		if s.Broken != "" {
			fmt.Fprintf(&buf, "Broken: %s\n", s.Broken)
		}

		keys := make([]string, 0, len(s.Metadata))
		for key := range s.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&buf, "%s: %s\n", key, s.Metadata[key])
		}

		// Multi-line descriptions are continued with a leading space
		if s.Description != "" {
			fmt.Fprintf(&buf, "Description: %s\n", strings.ReplaceAll(s.Description, "\n", "\n "))
		}

		buf.WriteString("\n")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteJSON writes the summaries as an indented JSON array
func WriteJSON(w io.Writer, summaries []models.PackageSummary) error {
	if summaries == nil {
		summaries = []models.PackageSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
