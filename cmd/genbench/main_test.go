package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedDict.git/datastream"
)

func TestFormatHelpers(t *testing.T) {
	n, err := parseScientificNotation("1e5")
	require.NoError(t, err)
	assert.Equal(t, 100000, n)

	assert.Equal(t, "1e5", formatScientific(100000))
	assert.Equal(t, "2.5e3", formatScientific(2500))
	assert.Equal(t, "7e0", formatScientific(7))
	assert.Equal(t, "0", formatScientific(0))

	assert.Equal(t, "1_07", formatDecimal(1.07))
	assert.Equal(t, "1_5", formatDecimal(1.5))
	assert.Equal(t, "2", formatDecimal(2))
}

func TestSizedCommandWritesFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	app := newCliApp(fs)
	err := app.Run([]string{"genbench", "--path", "/out", "--nums", "2", "sized",
		"--min-exp", "3", "--max-exp", "4", "--times", "10", "--max-key", "1000"})
	require.NoError(t, err)

	for _, name := range []string{"/out/sized_m3-4_t1e1_0.bin", "/out/sized_m3-4_t1e1_1.bin"} {
		wl, err := datastream.ReadWorkloadFile(fs, name)
		require.NoError(t, err, name)
		require.Len(t, wl.Rounds, 2)
		assert.Equal(t, 80, wl.OpCount())
	}
}

func TestZipfCommandWritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	app := newCliApp(fs)
	require.NoError(t, app.Run([]string{"genbench", "--out", "z", "zipf", "--n", "50", "--k", "200"}))

	wl, err := datastream.ReadWorkloadFile(fs, "z.bin")
	require.NoError(t, err)
	assert.Equal(t, 200, wl.OpCount())

	require.NoError(t, app.Run([]string{"genbench", "--out", "u", "zipf", "--n", "50", "--k", "20", "--a", "0"}))
	exist, err := afero.Exists(fs, "u.bin")
	require.NoError(t, err)
	assert.True(t, exist)
}
