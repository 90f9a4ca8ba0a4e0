package metamanifest

// ApplyRemoteTemplates expands, in order, every template whose filter name is allowed.
func ApplyRemoteTemplates(templates []RemoteTemplate, allowedNames NameSet, organization string, repository string) ([]ExpandedRemote, error) {
	expandedRemotes := make([]ExpandedRemote, 0, len(templates))
	for _, template := range templates {
		if !allowedNames.Contains(template.FilterName()) {
			continue
		}
		remoteEntry, expansionError := ExpandRemote(template, organization, repository)
		if expansionError != nil {
			return nil, expansionError
		}
		expandedRemotes = append(expandedRemotes, ExpandedRemote{Entry: remoteEntry, Template: template})
	}
	return expandedRemotes, nil
}

// RemoteEntries drops the template association from expanded remotes.
func RemoteEntries(expandedRemotes []ExpandedRemote) []RemoteEntry {
	remoteEntries := make([]RemoteEntry, 0, len(expandedRemotes))
	for _, expandedRemote := range expandedRemotes {
		remoteEntries = append(remoteEntries, expandedRemote.Entry)
	}
	return remoteEntries
}
