package particles

import (
	"fmt"

	"github.com/meigma/xrf/chunk"
)

// Finding is one broken reference found by Verify.
type Finding struct {
	Group string
	Err   error
}

func (f Finding) String() string {
	return "group " + f.Group + ": " + f.Err.Error()
}

// Verify checks that every effect a group plays or spawns exists and that
// record names are unique. It returns nil for a consistent file.
func (f *File) Verify() []Finding {
	var findings []Finding
	effects := make(map[string]bool, len(f.Effects))
	for _, e := range f.Effects {
		if effects[e.Name] {
			findings = append(findings, Finding{Err: fmt.Errorf("%w: effect %q", errDuplicate, e.Name)})
		}
		effects[e.Name] = true
	}
	groups := make(map[string]bool, len(f.Groups))
	for _, g := range f.Groups {
		if groups[g.Name] {
			findings = append(findings, Finding{Group: g.Name, Err: fmt.Errorf("%w: group %q", errDuplicate, g.Name)})
		}
		groups[g.Name] = true
	}

	check := func(group, role, name string, optional bool) {
		if name == "" && optional {
			return
		}
		if !effects[name] {
			findings = append(findings, Finding{
				Group: group,
				Err:   &chunk.NotFoundError{What: fmt.Sprintf("%s effect %q", role, name)},
			})
		}
	}
	for _, g := range f.Groups {
		for _, ge := range g.Effects {
			check(g.Name, "played", ge.Name, false)
			check(g.Name, "on play", ge.OnPlay, true)
			check(g.Name, "on birth", ge.OnBirth, true)
			check(g.Name, "on dead", ge.OnDead, true)
		}
		for _, ge := range g.EffectsOld {
			check(g.Name, "old", ge.Name, false)
			check(g.Name, "old on play", ge.OnPlay, true)
		}
	}
	return findings
}

var errDuplicate = fmt.Errorf("%w: duplicate name", chunk.ErrVerify)
