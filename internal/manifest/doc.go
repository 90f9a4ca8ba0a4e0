// Package manifest builds, writes, and reads the per-mirror manifests consumed
// by the workspace tool.
//
// Builder walks a metamanifest.MetaManifest mirror by mirror and produces
// OutputManifest values. Writer serializes them through the ordered document
// tree so repositories, remotes, and group members keep the order in which
// they were generated.
package manifest
