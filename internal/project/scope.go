package project

import (
	"github.com/opmodel/release/internal/scope"
)

// newProjectScope builds the read-only scope of p. Properties and
// coordinates are captured now; version and project.version are read from
// the descriptor on every lookup so a version bump shows immediately. The
// same holds for the property a ${name} version refers to.
func newProjectScope(p *POM, parent scope.Scope) scope.Scope {
	fixed := p.Properties()
	fixed["project.groupId"] = p.GroupID()
	fixed["project.artifactId"] = p.artifactID()
	fixed["project.packaging"] = p.Packaging()
	fixed["project.basedir"] = p.BaseDir()

	versionProperty := p.versionProperty()

	return scope.NewReadOnly("project", scope.SourceFunc(func(name string) (string, bool) {
		if name == "version" || name == "project.version" || (name != "" && name == versionProperty) {
			v, err := p.Version()
			if err != nil || v == nil {
				return "", false
			}
			return v.String(), true
		}
		value, ok := fixed[name]
		return value, ok
	}), parent)
}
