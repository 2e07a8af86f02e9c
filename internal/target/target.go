package target

import (
	"fmt"
	"strings"
)

// Target selects the Windows architecture every path, URL and command of a
// run is derived from.
type Target int

const (
	X64 Target = iota
	X86
)

// Default is the target used when the user does not choose one.
const Default = X64

// All lists the selectable targets in prompt order.
func All() []Target {
	return []Target{X86, X64}
}

// Parse accepts "x86"/"x64" and a few common aliases.
func Parse(value string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "x64", "amd64", "win64", "64":
		return X64, nil
	case "x86", "386", "win32", "32":
		return X86, nil
	default:
		return Default, fmt.Errorf("unknown build target %q (want x86 or x64)", value)
	}
}

// Name returns the short architecture name, as used in vcpkg triplets.
func (t Target) Name() string {
	if t == X86 {
		return "x86"
	}
	return "x64"
}

// String implements fmt.Stringer.
func (t Target) String() string {
	return t.Name()
}

// Label is the human readable prompt label.
func (t Target) Label() string {
	return "Windows " + t.Name()
}

// Platform is the suffix CMake release archives and output folders use.
func (t Target) Platform() string {
	if t == X86 {
		return "win32-x86"
	}
	return "win64-x64"
}

// Triplet is the vcpkg triplet for the target.
func (t Target) Triplet() string {
	return t.Name() + "-windows"
}

// CMakeArch returns the -A value for the CMake generator, empty when the
// generator default applies.
func (t Target) CMakeArch() string {
	if t == X64 {
		return "x64"
	}
	return ""
}

// GitFlavor names the PortableGit build for the target.
func (t Target) GitFlavor() string {
	if t == X86 {
		return "32-bit"
	}
	return "64-bit"
}
