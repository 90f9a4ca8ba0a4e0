// Package barerepo creates missing bare repositories behind local remotes.
//
// Trigger is handed to the manifest builder and fires once per local remote
// whose template asks for it. Each firing parses the remote URL into a
// Location and delegates to a BareRepositoryInitializer; SSHInitializer does
// so by running git over ssh. Failures are reported and collected, never
// returned to the builder.
package barerepo
