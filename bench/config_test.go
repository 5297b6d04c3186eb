package bench

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	config, err := LoadConfig(fs, "/etc/dictbench.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	config, err = LoadConfig(fs, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := `
workload:
  exponents: [4, 5]
  times: 10
impls: [skip, basic]
verify: true
`
	require.NoError(t, afero.WriteFile(fs, "/bench.yaml", []byte(data), 0644))

	config, err := LoadConfig(fs, "/bench.yaml")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, config.Workload.Exponents)
	assert.Equal(t, 10, config.Workload.Times)
	assert.Equal(t, int64(1_000_000), config.Workload.MaxKey)
	assert.Equal(t, []string{ImplSkip, ImplBasic}, config.Impls)
	assert.True(t, config.Verify)
	assert.True(t, config.Agreement)
	assert.Equal(t, 1, config.Runs)
}

func TestLoadConfigErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/broken.yaml", []byte("runs: [1"), 0644))
	_, err := LoadConfig(fs, "/broken.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/zero.yaml", []byte("runs: 0"), 0644))
	_, err = LoadConfig(fs, "/zero.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/desc.yaml", []byte("workload:\n  exponents: [8, 4]"), 0644))
	_, err = LoadConfig(fs, "/desc.yaml")
	assert.ErrorContains(t, err, "strictly ascending")

	require.NoError(t, afero.WriteFile(fs, "/impl.yaml", []byte("impls: [treap]"), 0644))
	_, err = LoadConfig(fs, "/impl.yaml")
	assert.ErrorIs(t, err, ErrUnknownImpl)
}

func TestWriteDefaultConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteDefaultConfig(fs, "/default.yaml"))

	config, err := LoadConfig(fs, "/default.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}
