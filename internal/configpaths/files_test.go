package configpaths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCandidatePaths_UserPathFirst(t *testing.T) {
	tests := []struct {
		user string
		pick func(j, y, tm []string) []string
	}{
		{user: "/tmp/a.json", pick: func(j, _, _ []string) []string { return j }},
		{user: "/tmp/a.yml", pick: func(_, y, _ []string) []string { return y }},
		{user: "/tmp/a.toml", pick: func(_, _, tm []string) []string { return tm }},
		{user: "/tmp/a.conf", pick: func(j, _, _ []string) []string { return j }},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			j, y, tm := ConfigCandidatePaths(tt.user)
			got := tt.pick(j, y, tm)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.user, got[0])
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	if os.Getenv("AppData") != "" {
		t.Skip("windows layout")
	}
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", AppName), dir)
}

func TestFindKeymap(t *testing.T) {
	p, err := FindKeymap("explicit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "explicit.yaml", p)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	_, err = FindKeymap("")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keymap.toml"), []byte(""), 0o644))
	p, err = FindKeymap("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".", "keymap.toml"), p)
}
