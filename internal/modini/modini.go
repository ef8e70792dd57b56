// Package modini reads the mod auxiliary INI file described in spec
// section 6: a small line-based [section] key = value format with escape
// handling and comma-separated multi-value keys. The spec explicitly
// leaves this format unspecified beyond "any conforming implementation
// suffices"; this one follows the teacher's internal/config package's
// load-and-validate shape even though INI itself is hand-rolled.
package modini

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Metadata is the [Metadata] section of a mod's auxiliary INI file, spec
// section 6. Keys are case-insensitive in the source file.
type Metadata struct {
	Name        string
	Author      string
	Description string
	Readme      string
	Forum       string
	Homepage    string
	Download    string
	LabelType   string
	Before      []string
	After       []string
}

// multiValueKeys lists the Metadata keys that are comma-separated lists
// rather than scalars.
var multiValueKeys = map[string]bool{
	"before": true,
	"after":  true,
}

// CandidatePaths returns the two file names spec section 6 allows
// alongside a tp2 file: "<mod>.ini" and "setup-<mod>.ini", both checked in
// the tp2's directory.
func CandidatePaths(tp2Path, modName string) []string {
	dir := filepath.Dir(tp2Path)
	return []string{
		filepath.Join(dir, modName+".ini"),
		filepath.Join(dir, "setup-"+modName+".ini"),
	}
}

// Load tries each candidate path in order and parses the first one that
// exists. It returns a zero Metadata and no error if none of them exist:
// the auxiliary file is optional.
func Load(candidates []string) (Metadata, error) {
	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Metadata{}, fmt.Errorf("modini: opening %s: %w", path, err)
		}
		defer f.Close()
		return Parse(f)
	}
	return Metadata{}, nil
}

// Parse reads a line-based [section] key = value document and extracts
// the [Metadata] section. Lines beginning with ';' or '#' are comments.
// Values may escape a literal comma with `\,`, a literal equals with
// `\=`, and a literal backslash with `\\`. Escapes are removed before the
// multi-value keys (Before, After) are split on commas, so an escaped
// comma in those values still separates list items.
func Parse(r io.Reader) (Metadata, error) {
	var md Metadata
	section := ""
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		if !strings.EqualFold(section, "Metadata") {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			return Metadata{}, fmt.Errorf("modini: line %d: expected key = value, got %q", lineNo, line)
		}
		applyMetadataKey(&md, strings.ToLower(key), value)
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, fmt.Errorf("modini: reading: %w", err)
	}
	return md, nil
}

// splitKeyValue finds the first unescaped '=' and returns the trimmed key
// and unescaped value.
func splitKeyValue(line string) (key, value string, ok bool) {
	idx := -1
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '=' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = unescape(strings.TrimSpace(line[idx+1:]))
	return key, value, true
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case ',', '=', '\\':
				b.WriteByte(s[i+1])
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func splitMultiValue(value string) []string {
	if value == "" {
		return nil
	}
	raw := strings.Split(value, ",")
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func applyMetadataKey(md *Metadata, key, value string) {
	if multiValueKeys[key] {
		list := splitMultiValue(value)
		switch key {
		case "before":
			md.Before = list
		case "after":
			md.After = list
		}
		return
	}
	switch key {
	case "name":
		md.Name = value
	case "author":
		md.Author = value
	case "description":
		md.Description = value
	case "readme":
		md.Readme = value
	case "forum":
		md.Forum = value
	case "homepage":
		md.Homepage = value
	case "download":
		md.Download = value
	case "labeltype":
		md.LabelType = value
	}
}
