package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tsrcmgr/internal/manifestdiff"
)

const (
	diffCommandUseConstant              = "diff <file1> <file2>"
	diffCommandShortDescriptionConstant = "Compare two manifests structurally"
	diffCommandLongDescriptionConstant  = "diff loads two YAML manifests and lists every added, removed or changed value. Mapping key order is ignored; sequence order is significant."
	diffCommandArgumentCountConstant    = 2
	diffCompletedMessageConstant        = "manifest comparison completed"
	logFieldLeftPathConstant            = "left"
	logFieldRightPathConstant           = "right"
	logFieldDifferenceCountConstant     = "difference_count"
)

// DiffCommandBuilder assembles the diff command.
type DiffCommandBuilder struct {
	LoggerProvider func() *zap.Logger
	ColorMode      manifestdiff.ColorMode
}

// Build constructs the diff command.
func (builder *DiffCommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, errLoggerProviderMissing
	}

	return &cobra.Command{
		Use:   diffCommandUseConstant,
		Short: diffCommandShortDescriptionConstant,
		Long:  diffCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(diffCommandArgumentCountConstant),
		RunE:  builder.run,
	}, nil
}

func (builder *DiffCommandBuilder) run(command *cobra.Command, arguments []string) error {
	leftDocument, leftError := manifestdiff.LoadDocument(arguments[0])
	if leftError != nil {
		return leftError
	}
	rightDocument, rightError := manifestdiff.LoadDocument(arguments[1])
	if rightError != nil {
		return rightError
	}

	differences := manifestdiff.Diff(leftDocument, rightDocument)

	if logger := builder.LoggerProvider(); logger != nil {
		logger.Info(
			diffCompletedMessageConstant,
			zap.String(logFieldLeftPathConstant, arguments[0]),
			zap.String(logFieldRightPathConstant, arguments[1]),
			zap.Int(logFieldDifferenceCountConstant, len(differences)),
		)
	}

	return manifestdiff.NewReporter(builder.ColorMode).Report(command.OutOrStdout(), differences)
}
