package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	versionCommandUseConstant              = "version"
	versionCommandShortDescriptionConstant = "Print the tsrcmgr version"
)

// Version is the released version, overridden at build time through
// -ldflags "-X github.com/temirov/tsrcmgr/cmd/cli.Version=...".
var Version = "0.1.0"

// VersionCommandBuilder assembles the version command.
type VersionCommandBuilder struct {
	VersionProvider func() string
}

// Build constructs the version command.
func (builder *VersionCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, writeError := color.New(color.Bold).Fprintln(command.OutOrStdout(), builder.resolveVersion())
			return writeError
		},
	}, nil
}

func (builder *VersionCommandBuilder) resolveVersion() string {
	if builder.VersionProvider != nil {
		return builder.VersionProvider()
	}
	return Version
}
