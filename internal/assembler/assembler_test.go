package assembler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/metadata"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAssembleMissingFileYieldsErrorRecord(t *testing.T) {
	asm := New(config.Config{})
	rec := asm.Assemble(filepath.Join(t.TempDir(), "does-not-exist.bin"))

	require.Contains(t, rec.Err, "File not found:")
	require.Nil(t, rec.Meta)
	require.Empty(t, rec.DomainErr)

	// Name and path are still attributable.
	v, ok := rec.Base.Get("file_name")
	require.True(t, ok)
	require.Equal(t, "does-not-exist.bin", v.String())
}

func TestAssembleDirectoryYieldsErrorRecord(t *testing.T) {
	asm := New(config.Config{})
	rec := asm.Assemble(t.TempDir())
	require.Contains(t, rec.Err, "Not a file:")
}

func TestAssembleBaseAttributes(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "hello")
	asm := New(config.Config{})
	rec := asm.Assemble(path)

	require.Empty(t, rec.Err)
	base := rec.Base

	for _, key := range []string{
		"file_name", "file_path", "file_size", "human_size",
		"created", "modified", "accessed", "file_type", "mime_type",
	} {
		require.True(t, base.Has(key), "missing base attribute %q", key)
	}
	require.Equal(t, []string{
		"file_name", "file_path", "file_size", "human_size",
		"created", "modified", "accessed", "file_type", "mime_type",
	}, base.Keys())

	size, _ := base.Get("file_size")
	require.Equal(t, "5", size.String())
	human, _ := base.Get("human_size")
	require.Equal(t, "5 B", human.String())

	abs, _ := base.Get("file_path")
	require.True(t, filepath.IsAbs(abs.String()))
}

func TestAssembleComputesHashWhenRequested(t *testing.T) {
	path := writeTempFile(t, "h.txt", "hello")

	rec := New(config.Config{ComputeHash: true}).Assemble(path)
	sum, ok := rec.Base.Get("sha3_256")
	require.True(t, ok)
	require.Equal(t,
		"3338be694f50c5f338814986cdf0686453a888b84f424d792af4b9202398f392",
		sum.String())

	rec = New(config.Config{}).Assemble(path)
	require.False(t, rec.Base.Has("sha3_256"))
}

func baseFixture() *metadata.Mapping {
	base := metadata.NewMapping()
	base.SetStr("file_name", "a.jpg")
	base.SetStr("created", "2020-01-01 00:00:00")
	base.SetStr("modified", "2020-01-02 00:00:00")
	base.SetStr("accessed", "2020-01-03 00:00:00")
	base.SetStr("file_type", "Image")
	base.SetStr("mime_type", "image/jpeg")
	return base
}

func TestMergeBaseIntoGroupedAddsGeneralGroup(t *testing.T) {
	grouped := metadata.NewMapping()
	exif := metadata.NewMapping()
	exif.SetStr("Make", "Apple")
	grouped.Set("EXIF", metadata.Map(exif))

	mergeBaseIntoGrouped(grouped, baseFixture())

	general, ok := grouped.Child("General")
	require.True(t, ok)
	require.True(t, general.Has("file_name"))
	require.True(t, general.Has("created"))
	require.True(t, general.Has("file_type"))
}

func TestMergeBaseSkipsTimestampsWhenToolProvidesThem(t *testing.T) {
	grouped := metadata.NewMapping()
	fileGroup := metadata.NewMapping()
	fileGroup.SetStr("FileModifyDate", "2022:03:04 10:00:00")
	grouped.Set("File", metadata.Map(fileGroup))

	mergeBaseIntoGrouped(grouped, baseFixture())

	general, _ := grouped.Child("General")
	require.False(t, general.Has("created"))
	require.False(t, general.Has("modified"))
	require.False(t, general.Has("accessed"))
	// Type keys still merge: the File group has no FileType.
	require.True(t, general.Has("file_type"))
}

func TestMergeBaseSkipsTypeWhenToolProvidesIt(t *testing.T) {
	grouped := metadata.NewMapping()
	fileGroup := metadata.NewMapping()
	fileGroup.SetStr("FileType", "JPEG")
	grouped.Set("File", metadata.Map(fileGroup))

	mergeBaseIntoGrouped(grouped, baseFixture())

	general, _ := grouped.Child("General")
	require.False(t, general.Has("file_type"))
	require.False(t, general.Has("mime_type"))
	require.True(t, general.Has("created"))
}

func TestMergeBaseNeverOverwritesExistingGeneralKeys(t *testing.T) {
	grouped := metadata.NewMapping()
	general := metadata.NewMapping()
	general.SetStr("file_name", "tool-reported.jpg")
	grouped.Set("General", metadata.Map(general))

	mergeBaseIntoGrouped(grouped, baseFixture())

	v, _ := general.Get("file_name")
	require.Equal(t, "tool-reported.jpg", v.String())
}
