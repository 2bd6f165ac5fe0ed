package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

const testRegistryTOML = `
[[devices]]
name = "n150"
hardware = "n150 (Wormhole)"

[[devices]]
name = "t3k"
hardware = "Loudbox (Wormhole)"

[[models]]
name = "resnet-50"
display_name = "ResNet-50"
family = "ResNet"
tasks = ["Vision", "Image-Classification"]
`

func writeTestRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestRegistry(t, testRegistryTOML)

	svc, err := Load(path, common.GetLogger())
	require.NoError(t, err)

	// Registry order is preserved.
	devices := svc.Devices()
	require.Len(t, devices, 2)
	assert.Equal(t, "n150", devices[0].Name)
	assert.Equal(t, "t3k", devices[1].Name)

	m, ok := svc.LookupModel("resnet-50")
	require.True(t, ok)
	assert.Equal(t, "ResNet-50", m.DisplayName)
	assert.Equal(t, "ResNet", m.Family)

	_, ok = svc.LookupModel("unknown")
	assert.False(t, ok)

	assert.True(t, svc.HasDevice("n150"))
	assert.False(t, svc.HasDevice("n300"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), common.GetLogger())
	assert.Error(t, err)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(
		[]models.DeviceConfig{
			{Name: "n150", Hardware: "a"},
			{Name: "n150", Hardware: "b"},
		},
		nil,
		common.GetLogger(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate device")
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	_, err := New(
		[]models.DeviceConfig{{Name: "", Hardware: "x"}},
		nil,
		common.GetLogger(),
	)
	assert.Error(t, err)
}

func TestAppendEntries(t *testing.T) {
	path := writeTestRegistry(t, testRegistryTOML)

	svc, err := Load(path, common.GetLogger())
	require.NoError(t, err)

	err = svc.AppendEntries([]string{"new-model"}, []string{"new-device"})
	require.NoError(t, err)

	// Appended entries are visible on the next load, with existing
	// entries intact.
	reloaded, err := Load(path, common.GetLogger())
	require.NoError(t, err)

	assert.Len(t, reloaded.Devices(), 3)
	assert.Len(t, reloaded.Models(), 2)

	m, ok := reloaded.LookupModel("new-model")
	require.True(t, ok)
	assert.Equal(t, "new-model", m.DisplayName)
	assert.Equal(t, "Other", m.Family)
	assert.Equal(t, []string{"Unknown"}, m.Tasks)

	d, ok := reloaded.LookupDevice("new-device")
	require.True(t, ok)
	assert.Equal(t, "New-device", d.Hardware)

	existing, ok := reloaded.LookupModel("resnet-50")
	require.True(t, ok)
	assert.Equal(t, "ResNet-50", existing.DisplayName)
}

func TestAppendEntriesSkipsExisting(t *testing.T) {
	path := writeTestRegistry(t, testRegistryTOML)

	svc, err := Load(path, common.GetLogger())
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, svc.AppendEntries([]string{"resnet-50"}, []string{"n150"}))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAppendEntriesNothingToDo(t *testing.T) {
	svc, err := New(nil, nil, common.GetLogger())
	require.NoError(t, err)

	// No durable file, but nothing to append either.
	assert.NoError(t, svc.AppendEntries(nil, nil))
}
