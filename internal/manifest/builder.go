package manifest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/tsrcmgr/internal/metamanifest"
)

const (
	manifestFileFieldConstant         = "manifest-file"
	metaManifestContextConstant       = "meta-manifest"
	mirrorContextTemplateConstant     = "mirrors[%d]"
	collapseHintConstant              = "the meta-manifest sets a top-level manifest-file; use --collapse to write every mirror into it"
	mirrorStartedMessageConstant      = "building mirror manifest"
	collapsedStartedMessageConstant   = "building collapsed manifest"
	repositoryExpandedMessageConstant = "repository expanded"
	ignoredMirrorPathMessageConstant  = "mirror manifest-file ignored while collapsing mirrors"
	logFieldMirrorIndexConstant       = "mirror_index"
	logFieldManifestPathConstant      = "manifest_path"
	logFieldRepositoryCountConstant   = "repository_count"
	logFieldRepositoryTokenConstant   = "repository_token"
	logFieldDestinationConstant       = "destination"
	logFieldBranchConstant            = "branch"
	logFieldRemoteCountConstant       = "remote_count"
)

// BareRepositoryTrigger receives local remotes whose template requests bare repository creation.
// Implementations handle their own failures.
type BareRepositoryTrigger interface {
	Fire(executionContext context.Context, remote metamanifest.RemoteEntry)
}

// BuilderOptions selects the generation mode.
type BuilderOptions struct {
	// CollapseMirrors merges every mirror into a single manifest written to the top-level manifest-file.
	CollapseMirrors bool
	// TriggerBareRepositoryCreation enables the bare repository trigger for flagged local templates.
	TriggerBareRepositoryCreation bool
}

// Builder expands meta-manifests into output manifests.
type Builder struct {
	options BuilderOptions
	trigger BareRepositoryTrigger
	logger  *zap.Logger
}

// NewBuilder constructs a Builder. The trigger may be nil, which disables bare repository creation.
func NewBuilder(options BuilderOptions, trigger BareRepositoryTrigger, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{options: options, trigger: trigger, logger: logger}
}

// Build expands every mirror and returns the resulting manifests in mirror order.
func (builder *Builder) Build(executionContext context.Context, metaManifest metamanifest.MetaManifest) ([]ManifestTarget, error) {
	var targets []ManifestTarget
	buildError := builder.BuildEach(executionContext, metaManifest, func(target ManifestTarget) error {
		targets = append(targets, target)
		return nil
	})
	if buildError != nil {
		return nil, buildError
	}
	return targets, nil
}

// BuildEach expands the meta-manifest and hands every completed manifest to visit before building the next one.
func (builder *Builder) BuildEach(executionContext context.Context, metaManifest metamanifest.MetaManifest, visit func(ManifestTarget) error) error {
	if builder.options.CollapseMirrors {
		return builder.buildCollapsed(executionContext, metaManifest, visit)
	}

	for mirrorIndex, mirror := range metaManifest.Mirrors {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if len(mirror.ManifestPath) == 0 {
			fieldError := metamanifest.MissingRequiredFieldError{
				Field:   manifestFileFieldConstant,
				Context: fmt.Sprintf(mirrorContextTemplateConstant, mirrorIndex),
			}
			if len(metaManifest.ManifestPath) > 0 {
				fieldError.Hint = collapseHintConstant
			}
			return fieldError
		}

		builder.logger.Debug(
			mirrorStartedMessageConstant,
			zap.Int(logFieldMirrorIndexConstant, mirrorIndex),
			zap.String(logFieldManifestPathConstant, mirror.ManifestPath),
			zap.Int(logFieldRepositoryCountConstant, len(mirror.RepositoryTokens)),
		)

		accumulator := newManifestAccumulator()
		if appendError := builder.appendMirror(executionContext, accumulator, metaManifest, mirror); appendError != nil {
			return appendError
		}

		if visitError := visit(ManifestTarget{Path: mirror.ManifestPath, Manifest: accumulator.outputManifest()}); visitError != nil {
			return visitError
		}
	}

	return nil
}

func (builder *Builder) buildCollapsed(executionContext context.Context, metaManifest metamanifest.MetaManifest, visit func(ManifestTarget) error) error {
	if len(metaManifest.ManifestPath) == 0 {
		return metamanifest.MissingRequiredFieldError{Field: manifestFileFieldConstant, Context: metaManifestContextConstant}
	}

	builder.logger.Debug(
		collapsedStartedMessageConstant,
		zap.String(logFieldManifestPathConstant, metaManifest.ManifestPath),
	)

	accumulator := newManifestAccumulator()
	for mirrorIndex, mirror := range metaManifest.Mirrors {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if len(mirror.ManifestPath) > 0 {
			builder.logger.Debug(
				ignoredMirrorPathMessageConstant,
				zap.Int(logFieldMirrorIndexConstant, mirrorIndex),
				zap.String(logFieldManifestPathConstant, mirror.ManifestPath),
			)
		}
		if appendError := builder.appendMirror(executionContext, accumulator, metaManifest, mirror); appendError != nil {
			return appendError
		}
	}

	return visit(ManifestTarget{Path: metaManifest.ManifestPath, Manifest: accumulator.outputManifest()})
}

func (builder *Builder) appendMirror(executionContext context.Context, accumulator *manifestAccumulator, metaManifest metamanifest.MetaManifest, mirror metamanifest.Mirror) error {
	for _, repositoryToken := range mirror.RepositoryTokens {
		repositorySpec, parseError := metamanifest.ParseRepositorySpec(repositoryToken)
		if parseError != nil {
			return parseError
		}

		remoteExpansions, remoteError := metamanifest.ApplyRemoteTemplates(metaManifest.RemoteTemplates, mirror.RemoteFilter, repositorySpec.Organization, repositorySpec.Repository)
		if remoteError != nil {
			return remoteError
		}

		localExpansions, localError := metamanifest.ApplyRemoteTemplates(metaManifest.LocalTemplates, mirror.LocalFilter, repositorySpec.Organization, repositorySpec.Repository)
		if localError != nil {
			return localError
		}

		repositoryEntry := RepositoryEntry{
			Destination: repositorySpec.Repository,
			Branch:      repositorySpec.Branch,
			Remotes:     append(metamanifest.RemoteEntries(remoteExpansions), metamanifest.RemoteEntries(localExpansions)...),
		}
		accumulator.add(repositoryEntry)

		builder.logger.Debug(
			repositoryExpandedMessageConstant,
			zap.String(logFieldRepositoryTokenConstant, repositoryToken),
			zap.String(logFieldDestinationConstant, repositoryEntry.Destination),
			zap.String(logFieldBranchConstant, repositoryEntry.Branch),
			zap.Int(logFieldRemoteCountConstant, len(repositoryEntry.Remotes)),
		)

		builder.fireBareRepositoryTrigger(executionContext, localExpansions)
	}

	return nil
}

func (builder *Builder) fireBareRepositoryTrigger(executionContext context.Context, localExpansions []metamanifest.ExpandedRemote) {
	if !builder.options.TriggerBareRepositoryCreation || builder.trigger == nil {
		return
	}
	for _, localExpansion := range localExpansions {
		if !localExpansion.Template.CreateBareIfMissing {
			continue
		}
		builder.trigger.Fire(executionContext, localExpansion.Entry)
	}
}

type manifestAccumulator struct {
	repositories []RepositoryEntry
	groupMembers []string
}

func newManifestAccumulator() *manifestAccumulator {
	return &manifestAccumulator{
		repositories: make([]RepositoryEntry, 0),
		groupMembers: make([]string, 0),
	}
}

func (accumulator *manifestAccumulator) add(repositoryEntry RepositoryEntry) {
	accumulator.repositories = append(accumulator.repositories, repositoryEntry)
	accumulator.groupMembers = append(accumulator.groupMembers, repositoryEntry.Destination)
}

func (accumulator *manifestAccumulator) outputManifest() OutputManifest {
	return OutputManifest{
		Repositories: accumulator.repositories,
		Groups:       []Group{{Name: DefaultGroupName, Repositories: accumulator.groupMembers}},
	}
}
