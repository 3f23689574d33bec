// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every translation key used in the Go sources
// exists in the primary locale, and that every other locale carries all
// keys of the primary one.
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "active.en.yaml"
	projectRoot   = "."
)

// keyPattern matches i18n.T("key") calls and bare "section.key" literals
// (keys passed around before reaching i18n.T).
var keyPattern = regexp.MustCompile(`i18n\.T\("([^"]+)"|"([a-z]+\.[a-z_]+)"`)

// skipDirs are not scanned for keys.
var skipDirs = map[string]bool{"tools": true, "_examples": true, "vendor": true, ".git": true}

type report struct {
	// Unknown keys are used in code but absent from the primary locale.
	Unknown []string
	// Orphaned keys are in the primary locale but never used.
	Orphaned []string
	// Missing maps a secondary locale file to the primary keys it lacks.
	Missing map[string][]string
}

func (r report) failed() bool {
	if len(r.Unknown) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	r, err := lint(projectRoot, localesDir, primaryLocale)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	printSection("Keys used in code but missing from "+primaryLocale, r.Unknown)
	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		printSection("Keys missing from "+f, r.Missing[f])
	}
	printSection("Orphaned keys in "+primaryLocale, r.Orphaned)

	if r.failed() {
		os.Exit(1)
	}
	fmt.Println("All translation files are consistent.")
}

func printSection(title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Printf("--- %s ---\n", title)
	for _, k := range keys {
		fmt.Printf("  - %s\n", k)
	}
}

func lint(root, locales, primary string) (report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return report{}, fmt.Errorf("scanning sources: %w", err)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(root, locales, primary))
	if err != nil {
		return report{}, fmt.Errorf("loading %s: %w", primary, err)
	}

	r := report{Missing: map[string][]string{}}
	for key := range used {
		// Bare literals may be config keys; only i18n sections count.
		if _, ok := primaryKeys[key]; !ok && used[key] {
			r.Unknown = append(r.Unknown, key)
		}
	}
	for key := range primaryKeys {
		if _, ok := used[key]; !ok {
			r.Orphaned = append(r.Orphaned, key)
		}
	}

	files, err := filepath.Glob(filepath.Join(root, locales, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, f := range files {
		if filepath.Base(f) == primary {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return report{}, fmt.Errorf("loading %s: %w", f, err)
		}
		var missing []string
		for key := range primaryKeys {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		r.Missing[filepath.Base(f)] = missing
	}

	sort.Strings(r.Unknown)
	sort.Strings(r.Orphaned)
	return r, nil
}

// findUsedKeys scans non-test .go files below root. The value is true for
// keys passed to i18n.T directly.
func findUsedKeys(root string) (map[string]bool, error) {
	keys := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyPattern.FindAllStringSubmatch(string(content), -1) {
			if m[1] != "" {
				keys[m[1]] = true
			} else if m[2] != "" && !keys[m[2]] {
				keys[m[2]] = false
			}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML locale and returns its dot-joined leaf keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		next := k
		if prefix != "" {
			next = prefix + "." + k
		}
		flattenYAML(next, v, keys)
	}
}
