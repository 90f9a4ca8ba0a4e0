package manifest_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tsrcmgr/internal/manifest"
	"github.com/temirov/tsrcmgr/internal/metamanifest"
	pathutils "github.com/temirov/tsrcmgr/internal/utils/path"
)

const (
	testExpectedManifestContentConstant = `repos:
  - dest: zeta
    branch: master
    remotes:
      - name: origin
        url: git@github.com:acme/zeta.git
      - name: backup
        url: ssh://nas/srv/acme/zeta.git
  - dest: alpha
    branch: release-2
    remotes: []
groups:
  default:
    repos:
      - zeta
      - alpha
`
	testManifestFileNameConstant = "manifest.yml"
)

func buildOrderedTestManifest() manifest.OutputManifest {
	return manifest.OutputManifest{
		Repositories: []manifest.RepositoryEntry{
			{
				Destination: "zeta",
				Branch:      "master",
				Remotes: []metamanifest.RemoteEntry{
					{Name: "origin", URL: "git@github.com:acme/zeta.git"},
					{Name: "backup", URL: "ssh://nas/srv/acme/zeta.git"},
				},
			},
			{
				Destination: "alpha",
				Branch:      "release-2",
				Remotes:     []metamanifest.RemoteEntry{},
			},
		},
		Groups: []manifest.Group{{Name: manifest.DefaultGroupName, Repositories: []string{"zeta", "alpha"}}},
	}
}

func TestEncodePreservesInsertionOrder(testInstance *testing.T) {
	var buffer bytes.Buffer
	require.NoError(testInstance, manifest.Encode(&buffer, buildOrderedTestManifest()))
	require.Equal(testInstance, testExpectedManifestContentConstant, buffer.String())
}

func TestWriterRoundTrip(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return temporaryDirectory, nil
	})
	writer := manifest.NewWriter(expander)

	require.NoError(testInstance, writer.Write("~/nested/"+testManifestFileNameConstant, buildOrderedTestManifest()))

	writtenPath := filepath.Join(temporaryDirectory, "nested", testManifestFileNameConstant)
	writtenContent, readError := os.ReadFile(writtenPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, testExpectedManifestContentConstant, string(writtenContent))

	loadedManifest, loadError := manifest.LoadFile(writtenPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, buildOrderedTestManifest(), loadedManifest)
}

func TestWriterReportsUnwritableDestination(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	blockingFilePath := filepath.Join(temporaryDirectory, "blocking")
	require.NoError(testInstance, os.WriteFile(blockingFilePath, []byte("file"), 0o600))

	writeError := manifest.NewWriter(nil).Write(filepath.Join(blockingFilePath, testManifestFileNameConstant), buildOrderedTestManifest())
	require.Error(testInstance, writeError)

	var outputWriteError manifest.OutputWriteError
	require.ErrorAs(testInstance, writeError, &outputWriteError)
	require.Equal(testInstance, filepath.Join(blockingFilePath, testManifestFileNameConstant), outputWriteError.Path)
}

func TestLoadKeepsGroupOrder(testInstance *testing.T) {
	content := "repos: []\ngroups:\n  second:\n    repos: [b]\n  first:\n    repos: [a]\n"

	loadedManifest, loadError := manifest.Load(bytes.NewBufferString(content))
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []manifest.Group{
		{Name: "second", Repositories: []string{"b"}},
		{Name: "first", Repositories: []string{"a"}},
	}, loadedManifest.Groups)
}

func TestLoadRejectsNonMappingGroups(testInstance *testing.T) {
	_, loadError := manifest.Load(bytes.NewBufferString("repos: []\ngroups:\n  - default\n"))
	require.Error(testInstance, loadError)
}
