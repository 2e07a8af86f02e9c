package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest keys understood by the builder.
const (
	KeyCMake = "cmake"
	KeyGperf = "gperf"
	KeyTDLib = "tdlib"
	KeyVcpkg = "vcpkg"
	KeyGit   = "git"
)

// RequiredKeys lists the tools every build needs a version for.
var RequiredKeys = []string{KeyCMake, KeyGperf, KeyTDLib, KeyVcpkg}

// Versions maps a tool name to the version string interpolated into its
// download URL. A loaded manifest is treated as read-only.
type Versions map[string]string

// Default returns the baseline manifest written by `tdbuild init`.
func Default() Versions {
	return Versions{
		KeyCMake: "3.20.1",
		KeyGperf: "3.0.1",
		KeyTDLib: "1.7.0",
		KeyVcpkg: "2021.05.12",
		KeyGit:   "2.31.1",
	}
}

// Load reads the YAML manifest from disk if it exists, otherwise returns the
// default manifest.
func Load(path string) (Versions, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read versions: %w", err)
	}
	return Parse(contents)
}

// Parse decodes a flat key/value YAML document. Values are read as strings so
// "1.10" stays "1.10" rather than becoming a float.
func Parse(contents []byte) (Versions, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal versions: %w", err)
	}
	v := make(Versions, len(raw))
	for key, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("versions: %s must be a scalar value", key)
		}
		v[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(node.Value)
	}
	return v, nil
}

// Get returns the version recorded for a tool, or "" when absent.
func (v Versions) Get(tool string) string {
	return v[tool]
}

// CMake returns the CMake release version.
func (v Versions) CMake() string { return v[KeyCMake] }

// Gperf returns the gnuwin32 gperf version.
func (v Versions) Gperf() string { return v[KeyGperf] }

// TDLib returns the TDLib source tag without the leading "v".
func (v Versions) TDLib() string { return strings.TrimPrefix(v[KeyTDLib], "v") }

// Vcpkg returns the vcpkg revision (tag or full commit hash).
func (v Versions) Vcpkg() string { return v[KeyVcpkg] }

// Git returns the PortableGit version, empty when not configured.
func (v Versions) Git() string { return v[KeyGit] }

// Keys returns the manifest keys sorted alphabetically.
func (v Versions) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal returns the YAML encoding of the manifest.
func (v Versions) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(map[string]string(v))
	if err != nil {
		return nil, fmt.Errorf("marshal versions: %w", err)
	}
	return buf, nil
}
