// Package cli constructs the tsrcmgr command-line interface. It wires the
// Cobra command hierarchy to the configuration loader, the zap logger and the
// gen, diff and version command builders.
package cli
