package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FeatureFileName is the transient hardware-definition fragment written
// into the per-board build directory and handed to configure.
const FeatureFileName = "extra_hwdef.dat"

// WriteFeatureDefinitions renders feature toggles into a hardware-definition
// fragment under dir and returns its path. Each feature becomes an undef
// line followed by a define: "GPS_TYPE" enables, "!GPS_TYPE" disables.
// Blank entries are skipped; if nothing remains, no file is written and ""
// is returned.
func WriteFeatureDefinitions(dir string, features []string) (string, error) {
	content := RenderFeatureDefinitions(features)
	if content == "" {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}
	path := filepath.Join(dir, FeatureFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write feature definitions: %w", err)
	}
	return path, nil
}

// RenderFeatureDefinitions produces the fragment text without touching disk.
func RenderFeatureDefinitions(features []string) string {
	var b strings.Builder
	for _, feature := range features {
		feature = strings.TrimSpace(feature)
		if feature == "" {
			continue
		}
		value := "1"
		if strings.HasPrefix(feature, "!") {
			feature = strings.TrimSpace(strings.TrimPrefix(feature, "!"))
			if feature == "" {
				continue
			}
			value = "0"
		}
		fmt.Fprintf(&b, "undef %s\n", feature)
		fmt.Fprintf(&b, "define %s %s\n", feature, value)
	}
	return b.String()
}
