package catalog

import (
	"errors"
	"fmt"

	"lxcsetup/internal/probe"
	"lxcsetup/internal/suite"
)

// ErrUnrecognizedFingerprint marks a fingerprint the catalog cannot map.
// Callers must treat it as fatal and perform no cleanup action.
var ErrUnrecognizedFingerprint = errors.New("unrecognized installation fingerprint")

// StepKind identifies a cleanup operation.
type StepKind string

const (
	StepBackup     StepKind = "backup"
	StepDelete     StepKind = "delete"
	StepStop       StepKind = "stop"
	StepRemoveUnit StepKind = "remove-unit"
)

// Step is one side-effecting cleanup operation. Target is a filesystem path
// for backup/delete/remove-unit and a unit name for stop.
type Step struct {
	Kind   StepKind
	Target string
	Group  string
}

// ActionSet is the ordered cleanup plan resolved from a fingerprint.
type ActionSet []Step

// Resolve maps a fingerprint to its ActionSet using the union-of-groups rule:
// every group with at least one marker bit set contributes its own steps, with
// backups before deletes before service stops before unit removals, and ties
// between groups broken by declaration order. Duplicate steps contributed by
// more than one group (shared services, shared unit files) appear once, at
// their first position.
//
// The all-absent fingerprint resolves to an empty ActionSet. A fingerprint
// whose length or symbols do not match the declared markers returns
// ErrUnrecognizedFingerprint.
func Resolve(s *suite.Suite, fp probe.Fingerprint) (ActionSet, error) {
	markers := s.MarkerPaths()
	if len(fp) != len(markers) {
		return nil, fmt.Errorf("%w: code %q has %d positions, %d markers declared",
			ErrUnrecognizedFingerprint, fp, len(fp), len(markers))
	}
	for i := 0; i < len(fp); i++ {
		if fp[i] != '0' && fp[i] != '1' {
			return nil, fmt.Errorf("%w: code %q has invalid symbol %q at position %d",
				ErrUnrecognizedFingerprint, fp, string(fp[i]), i)
		}
	}

	active := activeGroups(s, fp)

	var set ActionSet
	seen := make(map[string]struct{})
	appendStep := func(kind StepKind, target, group string) {
		key := string(kind) + "\x00" + target
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		set = append(set, Step{Kind: kind, Target: target, Group: group})
	}

	for _, group := range active {
		for _, file := range group.Files {
			appendStep(StepBackup, file, group.Name)
		}
	}
	for _, group := range active {
		for _, file := range group.Files {
			appendStep(StepDelete, file, group.Name)
		}
	}
	for _, group := range active {
		for _, service := range group.Services {
			appendStep(StepStop, service, group.Name)
		}
	}
	for _, group := range active {
		for _, unit := range group.Units {
			appendStep(StepRemoveUnit, unit, group.Name)
		}
	}
	return set, nil
}

// activeGroups returns, in declaration order, every group with at least one
// marker bit set in the fingerprint.
func activeGroups(s *suite.Suite, fp probe.Fingerprint) []suite.VersionGroup {
	var active []suite.VersionGroup
	bit := 0
	for _, group := range s.Groups {
		present := false
		for range group.Markers {
			if fp[bit] == '1' {
				present = true
			}
			bit++
		}
		if present {
			active = append(active, group)
		}
	}
	return active
}

// GroupNames lists the names of the groups a fingerprint activates. Used for
// logging and the run journal.
func GroupNames(s *suite.Suite, fp probe.Fingerprint) []string {
	if len(fp) != len(s.MarkerPaths()) {
		return nil
	}
	groups := activeGroups(s, fp)
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		names = append(names, group.Name)
	}
	return names
}
