// SPDX-License-Identifier: MPL-2.0

package experiment

import (
	"fmt"

	"github.com/charmbracelet/log"

	"rustle/internal/system"
)

func newExperiment(e *Experiment, sys system.Worker, opts []Option) *Experiment {
	e.system = sys
	e.logger = log.Default()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewCoreutils replaces the GNU coreutils with uutils coreutils, a single
// multicall binary every covered path links to.
func NewCoreutils(sys system.Worker, opts ...Option) *Experiment {
	return newExperiment(&Experiment{
		name:           "coreutils",
		packageName:    "rust-coreutils",
		minimumRelease: "24.04",
		unifiedBinary:  "/usr/bin/coreutils",
		binDirectory:   "/usr/lib/cargo/bin/coreutils",
	}, sys, opts)
}

// NewDiffutils replaces the GNU diffutils with the uutils rewrite.
func NewDiffutils(sys system.Worker, opts ...Option) *Experiment {
	return newExperiment(&Experiment{
		name:           "diffutils",
		packageName:    "rust-diffutils",
		minimumRelease: "24.10",
		unifiedBinary:  "/usr/lib/cargo/bin/diffutils/diffutils",
		binDirectory:   "/usr/lib/cargo/bin/diffutils",
	}, sys, opts)
}

// NewFindutils replaces the GNU findutils. There is no multicall binary:
// each tool links to its own replacement.
func NewFindutils(sys system.Worker, opts ...Option) *Experiment {
	return newExperiment(&Experiment{
		name:           "findutils",
		packageName:    "rust-findutils",
		minimumRelease: "24.04",
		binDirectory:   "/usr/lib/cargo/bin/findutils",
	}, sys, opts)
}

// NewSudoRs replaces sudo, su, and visudo with sudo-rs. The package ships a
// fixed trio of binaries, and visudo lives in /usr/sbin, so targets resolve
// through PATH. Only the releases listed here ship a compatible sudo-rs.
func NewSudoRs(sys system.Worker, opts ...Option) *Experiment {
	return newExperiment(&Experiment{
		name:              "sudo-rs",
		packageName:       "sudo-rs",
		supportedReleases: []string{"24.04", "24.10", "25.04"},
		files: []string{
			"/usr/lib/cargo/bin/su",
			"/usr/lib/cargo/bin/sudo",
			"/usr/lib/cargo/bin/visudo",
		},
	}, sys, opts)
}

// All returns every known experiment in catalog order.
func All(sys system.Worker, opts ...Option) []*Experiment {
	return []*Experiment{
		NewCoreutils(sys, opts...),
		NewDiffutils(sys, opts...),
		NewFindutils(sys, opts...),
		NewSudoRs(sys, opts...),
	}
}

// DefaultNames lists the experiments acted on when none are named
// explicitly.
func DefaultNames() []string {
	return []string{"coreutils", "sudo-rs"}
}

// Select resolves names against experiments, preserving catalog order and
// ignoring duplicates. Unknown names are an error.
func Select(experiments []*Experiment, names []string) ([]*Experiment, error) {
	known := make(map[string]bool, len(experiments))
	for _, e := range experiments {
		known[e.Name()] = true
	}
	for _, name := range names {
		if !known[name] {
			return nil, fmt.Errorf("unknown experiment %q", name)
		}
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var selected []*Experiment
	for _, e := range experiments {
		if wanted[e.Name()] {
			selected = append(selected, e)
		}
	}
	return selected, nil
}
