package builder

import (
	"path/filepath"

	"tdbuild/internal/config"
	"tdbuild/internal/paths"
	"tdbuild/internal/provision"
	"tdbuild/internal/target"
)

// Step names reported to an Observer, in execution order.
const (
	StepCMake     = "cmake"
	StepGperf     = "gperf"
	StepTDLib     = "tdlib"
	StepGit       = "git"
	StepVcpkg     = "vcpkg"
	StepBootstrap = "bootstrap"
	StepUpgrade   = "vcpkg-upgrade"
	StepInstall   = "vcpkg-install"
	StepBuildDir  = "build-dir"
	StepConfigure = "configure"
	StepBuild     = "build"
	StepStage     = "stage"
)

// ProvisionStepNames lists the provisioning steps for a run.
func ProvisionStepNames(withGit bool) []string {
	names := []string{StepCMake, StepGperf, StepTDLib}
	if withGit {
		names = append(names, StepGit)
	}
	return append(names, StepVcpkg)
}

// StepNames lists every step of a full build.
func StepNames(withGit bool) []string {
	return append(ProvisionStepNames(withGit),
		StepBootstrap, StepUpgrade, StepInstall, StepBuildDir, StepConfigure, StepBuild, StepStage)
}

// Dependencies returns the provisioning steps in order. Tool steps come
// first so their bin directories precede vcpkg on the search path.
func Dependencies(l paths.Layout, v config.Versions, t target.Target, withGit bool) []provision.Step {
	steps := []provision.Step{
		provision.CMake(l, v.CMake(), t),
		provision.Gperf(l, v.Gperf()),
		provision.TDLibSource(l, v.TDLib()),
	}
	if withGit && v.Git() != "" {
		steps = append(steps, provision.PortableGit(l, v.Git(), t))
	}
	return append(steps, provision.Vcpkg(l, v.Vcpkg(), ShortRevision(v.Vcpkg())))
}

// Artifact is a built file copied into the output directory.
type Artifact struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// VcpkgDir is where vcpkg lives once provisioned.
func VcpkgDir(l paths.Layout, v config.Versions) string {
	return l.Work("vcpkg-" + ShortRevision(v.Vcpkg()))
}

// SourceDir is the extracted TDLib source tree.
func SourceDir(l paths.Layout, v config.Versions) string {
	return l.Work("td-" + v.TDLib())
}

// Artifacts lists the four binaries staged after a build.
func Artifacts(l paths.Layout, v config.Versions, t target.Target) []Artifact {
	vcpkgBin := filepath.Join(VcpkgDir(l, v), "installed", t.Triplet(), "bin")
	tdBin := filepath.Join(SourceDir(l, v), "tdlib", "bin")
	return []Artifact{
		{Name: "libeay32.dll", Source: filepath.Join(vcpkgBin, "libeay32.dll")},
		{Name: "ssleay32.dll", Source: filepath.Join(vcpkgBin, "ssleay32.dll")},
		{Name: "zlib1.dll", Source: filepath.Join(vcpkgBin, "zlib1.dll")},
		{Name: "tdjson.dll", Source: filepath.Join(tdBin, "tdjson.dll")},
	}
}
