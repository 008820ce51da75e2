package report

import (
	"os"
	"time"

	"github.com/google/uuid"
)

const Version = "1.0"

// UnknownBuild is substituted when no build identifier is available.
const UnknownBuild = "Unknown"

// BuildEnv is the CI variable the build identifier is read from.
const BuildEnv = "BUILD_NUMBER"

// Artifact is one externally produced scan artifact referenced by the
// report. It is display text only; nothing reads or verifies the ref.
type Artifact struct {
	Label string `json:"label" yaml:"label"`
	Ref   string `json:"ref" yaml:"ref"`
}

// Report is a single generated build summary.
type Report struct {
	ID          string     `json:"id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Build       string     `json:"build"`
	Artifacts   []Artifact `json:"artifacts,omitempty"`
}

// New builds a report from an explicit clock reading and build identifier.
// Callers at the process boundary supply time.Now() and BuildFromEnv();
// tests supply fixed values. nil artifacts means DefaultArtifacts.
func New(now time.Time, build string, artifacts []Artifact) Report {
	if build == "" {
		build = UnknownBuild
	}
	if artifacts == nil {
		artifacts = DefaultArtifacts()
	}
	return Report{
		ID:          "report-" + uuid.NewString(),
		GeneratedAt: now,
		Build:       build,
		Artifacts:   artifacts,
	}
}

// BuildFromEnv reads BUILD_NUMBER; unset and empty both map to Unknown.
func BuildFromEnv() string {
	if v := os.Getenv(BuildEnv); v != "" {
		return v
	}
	return UnknownBuild
}

// DefaultArtifacts returns the three standard pipeline artifact entries.
func DefaultArtifacts() []Artifact {
	return []Artifact{
		{Label: "SAST", Ref: "see SonarQube"},
		{Label: "Container", Ref: "see trivy-report.json"},
		{Label: "DAST", Ref: "see zap-report.json"},
	}
}
