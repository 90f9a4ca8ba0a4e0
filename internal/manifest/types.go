package manifest

import (
	"github.com/temirov/tsrcmgr/internal/document"
	"github.com/temirov/tsrcmgr/internal/metamanifest"
)

const (
	// DefaultGroupName names the group that lists every generated repository.
	DefaultGroupName = "default"

	repositoriesKeyConstant = "repos"
	groupsKeyConstant       = "groups"
	destinationKeyConstant  = "dest"
	branchKeyConstant       = "branch"
	remotesKeyConstant      = "remotes"
	remoteNameKeyConstant   = "name"
	remoteURLKeyConstant    = "url"
)

// RepositoryEntry is one repository of a generated manifest.
type RepositoryEntry struct {
	Destination string
	Branch      string
	Remotes     []metamanifest.RemoteEntry
}

// Group lists repository destinations under a name.
type Group struct {
	Name         string
	Repositories []string
}

// OutputManifest is a generated manifest document.
type OutputManifest struct {
	Repositories []RepositoryEntry
	Groups       []Group
}

// ManifestTarget pairs a manifest with the path it is written to.
type ManifestTarget struct {
	Path     string
	Manifest OutputManifest
}

// Document converts the manifest into an ordered document tree.
func (outputManifest OutputManifest) Document() document.Mapping {
	repositories := make(document.Sequence, 0, len(outputManifest.Repositories))
	for _, repository := range outputManifest.Repositories {
		remotes := make(document.Sequence, 0, len(repository.Remotes))
		for _, remote := range repository.Remotes {
			remotes = append(remotes, document.NewMapping(
				document.Entry{Key: remoteNameKeyConstant, Value: remote.Name},
				document.Entry{Key: remoteURLKeyConstant, Value: remote.URL},
			))
		}
		repositories = append(repositories, document.NewMapping(
			document.Entry{Key: destinationKeyConstant, Value: repository.Destination},
			document.Entry{Key: branchKeyConstant, Value: repository.Branch},
			document.Entry{Key: remotesKeyConstant, Value: remotes},
		))
	}

	groups := document.NewMapping()
	for _, group := range outputManifest.Groups {
		members := make(document.Sequence, 0, len(group.Repositories))
		for _, member := range group.Repositories {
			members = append(members, member)
		}
		groups.Set(group.Name, document.NewMapping(document.Entry{Key: repositoriesKeyConstant, Value: members}))
	}

	return document.NewMapping(
		document.Entry{Key: repositoriesKeyConstant, Value: repositories},
		document.Entry{Key: groupsKeyConstant, Value: groups},
	)
}

// Group returns the named group.
func (outputManifest OutputManifest) Group(name string) (Group, bool) {
	for _, group := range outputManifest.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return Group{}, false
}
