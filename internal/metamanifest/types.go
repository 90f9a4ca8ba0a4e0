package metamanifest

// DefaultBranchName is used when a repository token carries no branch pin.
const DefaultBranchName = "master"

// RemoteTemplate describes a reusable remote URL pattern.
type RemoteTemplate struct {
	// Name identifies the template in mirror filters. Empty means RemoteName is used.
	Name                string
	RemoteName          string
	URLFormat           string
	CreateBareIfMissing bool
}

// FilterName returns the identifier mirror filters are matched against.
func (template RemoteTemplate) FilterName() string {
	if len(template.Name) > 0 {
		return template.Name
	}
	return template.RemoteName
}

// NameSet is a set of template identifiers.
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from the provided names.
func NewNameSet(names ...string) NameSet {
	nameSet := make(NameSet, len(names))
	for _, name := range names {
		nameSet[name] = struct{}{}
	}
	return nameSet
}

// Contains reports whether name belongs to the set.
func (nameSet NameSet) Contains(name string) bool {
	_, exists := nameSet[name]
	return exists
}

// Mirror is one output target of a meta-manifest.
type Mirror struct {
	ManifestPath     string
	RepositoryTokens []string
	RemoteFilter     NameSet
	LocalFilter      NameSet
}

// MetaManifest is the parsed meta-manifest document.
type MetaManifest struct {
	// ManifestPath is the optional top-level manifest-file used when mirrors are collapsed.
	ManifestPath    string
	RemoteTemplates []RemoteTemplate
	LocalTemplates  []RemoteTemplate
	Mirrors         []Mirror
}

// RepositorySpec is the parsed form of an "org/repo[@branch]" token.
type RepositorySpec struct {
	Organization string
	Repository   string
	Branch       string
}

// RemoteEntry is a concrete remote of a generated manifest.
type RemoteEntry struct {
	Name string
	URL  string
}

// ExpandedRemote pairs an expanded remote with the template it came from.
type ExpandedRemote struct {
	Entry    RemoteEntry
	Template RemoteTemplate
}
