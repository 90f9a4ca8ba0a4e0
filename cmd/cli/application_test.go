package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/tsrcmgr/internal/barerepo"
	"github.com/temirov/tsrcmgr/internal/manifest"
)

const (
	testMetaManifestFileNameConstant = "metamanifest.yml"
	testMetaManifestTemplateConstant = `remotes:
  - remote-name: origin
    url-format: git@github.com:{org}/{repo}.git
locals:
  - remote-name: nas
    url-format: ssh://nas.local/srv/git/{org}/{repo}.git
    create-bare-repo-if-missing: true
mirrors:
  - repos:
      - acme/widgets
      - acme/gadgets@develop
    remote-servers:
      - origin
    local-servers:
      - nas
    manifest-file: ~/manifests/acme.yml
  - repos:
      - tools/linter
    remote-servers:
      - origin
    local-servers: []
    manifest-file: ~/manifests/tools.yml
`
	testManifestContentConstant = `repos:
  - dest: widgets
    branch: master
    remotes:
      - name: origin
        url: git@github.com:acme/widgets.git
groups:
  default:
    repos:
      - widgets
`
	testReorderedManifestContentConstant = `groups:
  default:
    repos:
      - widgets
repos:
  - remotes:
      - url: git@github.com:acme/widgets.git
        name: origin
    branch: master
    dest: widgets
`
)

type recordingInitializer struct {
	guard             sync.Mutex
	recordedLocations []barerepo.Location
	failure           error
}

func (initializer *recordingInitializer) EnsureBareRepository(executionContext context.Context, location barerepo.Location) (barerepo.InitializationResult, error) {
	initializer.guard.Lock()
	defer initializer.guard.Unlock()
	initializer.recordedLocations = append(initializer.recordedLocations, location)
	if initializer.failure != nil {
		return barerepo.InitializationResult{}, initializer.failure
	}
	return barerepo.InitializationResult{Location: location, Created: true}, nil
}

type applicationHarness struct {
	application   *Application
	initializer   *recordingInitializer
	outputBuffer  *bytes.Buffer
	errorBuffer   *bytes.Buffer
	homeDirectory string
}

func newApplicationHarness(testInstance *testing.T) applicationHarness {
	testInstance.Helper()

	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)

	originalNoColor := color.NoColor
	color.NoColor = true
	testInstance.Cleanup(func() {
		color.NoColor = originalNoColor
	})

	initializer := &recordingInitializer{}
	application := NewApplication()
	application.initializerFactory = func(*zap.Logger) (barerepo.BareRepositoryInitializer, error) {
		return initializer, nil
	}

	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(errorBuffer)

	return applicationHarness{
		application:   application,
		initializer:   initializer,
		outputBuffer:  outputBuffer,
		errorBuffer:   errorBuffer,
		homeDirectory: homeDirectory,
	}
}

func (harness applicationHarness) execute(arguments ...string) error {
	harness.application.rootCommand.SetArgs(arguments)
	return harness.application.Execute()
}

func writeTestFile(testInstance *testing.T, filePath string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
}

func TestGenerateWritesManifestPerMirror(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	metaManifestPath := filepath.Join(harness.homeDirectory, testMetaManifestFileNameConstant)
	writeTestFile(testInstance, metaManifestPath, testMetaManifestTemplateConstant)

	require.NoError(testInstance, harness.execute("gen", "--input", metaManifestPath))

	outputLines := strings.Split(strings.TrimSpace(harness.outputBuffer.String()), "\n")
	require.Equal(testInstance, []string{
		"Metamanifest loaded: " + metaManifestPath,
		"BARE-REPO-DONE: nas nas.local:/srv/git/acme/widgets.git",
		"BARE-REPO-DONE: nas nas.local:/srv/git/acme/gadgets.git",
		"Manifest written: ~/manifests/acme.yml",
		"Manifest written: ~/manifests/tools.yml",
	}, outputLines)
	require.Len(testInstance, harness.initializer.recordedLocations, 2)

	acmeManifest, loadError := manifest.LoadFile(filepath.Join(harness.homeDirectory, "manifests", "acme.yml"))
	require.NoError(testInstance, loadError)
	require.Len(testInstance, acmeManifest.Repositories, 2)
	require.Equal(testInstance, "gadgets", acmeManifest.Repositories[1].Destination)
	require.Equal(testInstance, "develop", acmeManifest.Repositories[1].Branch)
	require.Len(testInstance, acmeManifest.Repositories[1].Remotes, 2)

	toolsManifest, loadError := manifest.LoadFile(filepath.Join(harness.homeDirectory, "manifests", "tools.yml"))
	require.NoError(testInstance, loadError)
	require.Len(testInstance, toolsManifest.Repositories, 1)
	defaultGroup, groupExists := toolsManifest.Group("default")
	require.True(testInstance, groupExists)
	require.Equal(testInstance, []string{"linter"}, defaultGroup.Repositories)
}

func TestGenerateSucceedsWhenBareRepositoryCreationFails(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	harness.initializer.failure = errors.New("connection refused")
	metaManifestPath := filepath.Join(harness.homeDirectory, testMetaManifestFileNameConstant)
	writeTestFile(testInstance, metaManifestPath, testMetaManifestTemplateConstant)

	require.NoError(testInstance, harness.execute("gen", "-i", metaManifestPath))

	require.Len(testInstance, harness.initializer.recordedLocations, 2)
	require.FileExists(testInstance, filepath.Join(harness.homeDirectory, "manifests", "acme.yml"))
	require.FileExists(testInstance, filepath.Join(harness.homeDirectory, "manifests", "tools.yml"))
	require.Contains(testInstance, harness.errorBuffer.String(), "BARE-REPO-SKIP: nas ssh://nas.local/srv/git/acme/widgets.git: ")
	require.Contains(testInstance, harness.errorBuffer.String(), "connection refused")
	require.NotContains(testInstance, harness.outputBuffer.String(), "BARE-REPO-DONE")
	require.Contains(testInstance, harness.outputBuffer.String(), "Manifest written: ~/manifests/acme.yml\n")
	require.Contains(testInstance, harness.outputBuffer.String(), "Manifest written: ~/manifests/tools.yml\n")
}

func TestGenerateSkipsBareRepositoriesWhenRequested(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	metaManifestPath := filepath.Join(harness.homeDirectory, testMetaManifestFileNameConstant)
	writeTestFile(testInstance, metaManifestPath, testMetaManifestTemplateConstant)

	require.NoError(testInstance, harness.execute("gen", "-i", metaManifestPath, "--skip-bare-repositories"))
	require.Empty(testInstance, harness.initializer.recordedLocations)
	require.NotContains(testInstance, harness.outputBuffer.String(), "BARE-REPO")
}

func TestGenerateUsesConfiguredInput(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	metaManifestPath := filepath.Join(harness.homeDirectory, ".tsrcmgr", testMetaManifestFileNameConstant)
	writeTestFile(testInstance, metaManifestPath, testMetaManifestTemplateConstant)

	require.NoError(testInstance, harness.execute("gen", "--skip-bare-repositories"))
	require.Contains(testInstance, harness.outputBuffer.String(), "Metamanifest loaded: ~/.tsrcmgr/metamanifest.yml\n")
}

func TestGenerateCollapseRequiresTopLevelManifestFile(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	metaManifestPath := filepath.Join(harness.homeDirectory, testMetaManifestFileNameConstant)
	writeTestFile(testInstance, metaManifestPath, testMetaManifestTemplateConstant)

	executionError := harness.execute("gen", "-i", metaManifestPath, "--collapse")
	require.Error(testInstance, executionError)
	require.NotContains(testInstance, harness.outputBuffer.String(), "Manifest written")
}

func TestGenerateFailsForMissingInput(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)

	executionError := harness.execute("gen", "-i", filepath.Join(harness.homeDirectory, "absent.yml"))
	require.Error(testInstance, executionError)
	require.Empty(testInstance, harness.outputBuffer.String())
}

func TestDiffCommand(testInstance *testing.T) {
	testCases := []struct {
		name           string
		rightContent   string
		expectedOutput string
	}{
		{
			name:           "identical_modulo_key_order",
			rightContent:   testReorderedManifestContentConstant,
			expectedOutput: "No difference detected\n",
		},
		{
			name:           "changed_branch",
			rightContent:   strings.Replace(testManifestContentConstant, "branch: master", "branch: develop", 1),
			expectedOutput: "Differences detected:\nchanged repos[0].branch: master -> develop\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newApplicationHarness(testInstance)
			leftPath := filepath.Join(harness.homeDirectory, "left.yml")
			rightPath := filepath.Join(harness.homeDirectory, "right.yml")
			writeTestFile(testInstance, leftPath, testManifestContentConstant)
			writeTestFile(testInstance, rightPath, testCase.rightContent)

			require.NoError(testInstance, harness.execute("diff", leftPath, rightPath))
			require.Equal(testInstance, testCase.expectedOutput, harness.outputBuffer.String())
		})
	}
}

func TestDiffCommandRequiresTwoArguments(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	require.Error(testInstance, harness.execute("diff", "only-one.yml"))
}

func TestVersionCommandPrintsVersion(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	require.NoError(testInstance, harness.execute("version"))
	require.Equal(testInstance, Version+"\n", harness.outputBuffer.String())
}

func TestVerboseFlagSelectsLogLevelAndPrintsBanner(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		expectedLogLevel string
		expectBanner     bool
	}{
		{name: "silent_by_default", arguments: []string{"version"}, expectedLogLevel: "silent"},
		{name: "two_flags_warn", arguments: []string{"-vv", "version"}, expectedLogLevel: "warn", expectBanner: true},
		{name: "four_flags_debug", arguments: []string{"-v", "-v", "-v", "-v", "version"}, expectedLogLevel: "debug", expectBanner: true},
		{name: "log_level_flag_wins", arguments: []string{"-v", "--log-level", "info", "version"}, expectedLogLevel: "info", expectBanner: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newApplicationHarness(testInstance)
			require.NoError(testInstance, harness.execute(testCase.arguments...))
			require.Equal(testInstance, testCase.expectedLogLevel, harness.application.configuration.Common.LogLevel)

			bannerLine := "Verbose logging is enabled. (LEVEL=" + strings.ToUpper(testCase.expectedLogLevel) + ")\n"
			if testCase.expectBanner {
				require.True(testInstance, strings.HasPrefix(harness.outputBuffer.String(), bannerLine))
			} else {
				require.NotContains(testInstance, harness.outputBuffer.String(), "Verbose logging")
			}
		})
	}
}

func TestConfigurationFileSetsGenerateDefaults(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	configurationPath := filepath.Join(harness.homeDirectory, "config.yaml")
	writeTestFile(testInstance, configurationPath, "tools:\n  gen:\n    create_bare_repositories: false\n    collapse_mirrors: true\n")

	require.NoError(testInstance, harness.execute("--config", configurationPath, "version"))
	require.False(testInstance, harness.application.configuration.Tools.Generate.CreateBareRepositories)
	require.True(testInstance, harness.application.configuration.Tools.Generate.CollapseMirrors)
	require.Equal(testInstance, "~/.tsrcmgr/metamanifest.yml", harness.application.configuration.Tools.Generate.Input)
}
