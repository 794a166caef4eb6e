package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fundus/internal/config"
	"github.com/verte-zerg/fundus/internal/registry"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFoundWorkflow(t *testing.T) {
	isolateXDG(t)
	writeConfig(t, "[registry]\nadmin-password = \"hausmeister\"\n")

	out, err := runCLI(t, "found", "add", "--category", "jacke", "--location", "Turnhalle", "--description", "rot")
	require.NoError(t, err)
	require.Equal(t, "Saved item #1 (Jacke)\n", out)

	_, err = runCLI(t, "found", "add", "--category", "Trinkflasche", "--location", "Mensa")
	require.NoError(t, err)

	out, err = runCLI(t, "found", "search", "--category", "Jacke")
	require.NoError(t, err)
	require.Contains(t, out, "Turnhalle")
	require.NotContains(t, out, "Mensa")

	out, err = runCLI(t, "found", "categories")
	require.NoError(t, err)
	require.Contains(t, out, "Trinkflasche")

	out, err = runCLI(t, "found", "remove", "1", "--password", "hausmeister")
	require.NoError(t, err)
	require.Equal(t, "Removed item #1 (Jacke)\n", out)

	out, err = runCLI(t, "found", "search")
	require.NoError(t, err)
	require.NotContains(t, out, "Turnhalle")
	require.Contains(t, out, "Mensa")
}

func TestFoundRejectsUnknownCategory(t *testing.T) {
	isolateXDG(t)
	_, err := runCLI(t, "found", "add", "--category", "Fahrrad")
	require.ErrorIs(t, err, registry.ErrUnknownCategory)
}

func TestFoundRemoveRefusedWithoutConfiguredPassword(t *testing.T) {
	isolateXDG(t)

	_, err := runCLI(t, "found", "add", "--category", "Schal")
	require.NoError(t, err)

	_, err = runCLI(t, "found", "remove", "1", "--password", "")
	require.ErrorIs(t, err, registry.ErrNoAdminPassword)

	out, err := runCLI(t, "found", "search")
	require.NoError(t, err)
	require.Contains(t, out, "Schal")
}

func TestFoundRemoveNeedsPassword(t *testing.T) {
	isolateXDG(t)
	writeConfig(t, "[registry]\nadmin-password = \"geheim\"\n")

	_, err := runCLI(t, "found", "add", "--category", "Schal")
	require.NoError(t, err)

	_, err = runCLI(t, "found", "remove", "1", "--password", "falsch")
	require.ErrorIs(t, err, registry.ErrForbidden)

	out, err := runCLI(t, "found", "remove", "1", "--password", "geheim")
	require.NoError(t, err)
	require.Equal(t, "Removed item #1 (Schal)\n", out)

	_, err = runCLI(t, "found", "remove", "1", "--password", "geheim")
	require.ErrorIs(t, err, registry.ErrNotFound)

	_, err = runCLI(t, "found", "remove", "abc", "--password", "geheim")
	require.Error(t, err)
}

func TestCatalogCommandUsesConfig(t *testing.T) {
	isolateXDG(t)
	writeConfig(t, `
[click]
base = 7

[[helpers]]
id = "hamster"
name = "Hamster"
power = 2
cost = "linear"
base = 3
increment = 4
`)
	out, err := runCLI(t, "catalog", "--preview", "3")
	require.NoError(t, err)
	require.Contains(t, out, "hamster")
	require.Contains(t, out, "3, 7, 11")
	require.Contains(t, out, "7, 28, 63")
	require.NotContains(t, out, "janitor")

	_, err = runCLI(t, "catalog", "--preview", "0")
	require.Error(t, err)
}

func TestStatsCommandEmpty(t *testing.T) {
	isolateXDG(t)
	out, err := runCLI(t, "stats")
	require.NoError(t, err)
	require.Equal(t, "No game sessions found.\n", out)

	_, err = runCLI(t, "stats", "--since", "yesterday")
	require.Error(t, err)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	isolateXDG(t)
	var cfg config.FileConfig
	md, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	require.Empty(t, md.Undecoded())
	require.Nil(t, cfg.Game.Refresh)
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("refresh", "1s", "")
		cmd.Flags().Bool("no-save", false, "")
		return cmd
	}

	refresh := "1s"
	fromFile := "250ms"
	applyStringConfig(newCmd(), "refresh", &refresh, &fromFile)
	require.Equal(t, "250ms", refresh)

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("refresh", "2s"))
	refresh = "2s"
	applyStringConfig(cmd, "refresh", &refresh, &fromFile)
	require.Equal(t, "2s", refresh)

	noSave := false
	save := false
	applyInvertedBoolConfig(newCmd(), "no-save", &noSave, &save)
	require.True(t, noSave)

	noSave = false
	applyInvertedBoolConfig(newCmd(), "no-save", &noSave, nil)
	require.False(t, noSave)
}

func TestRegistryConfigDefaults(t *testing.T) {
	isolateXDG(t)
	cfg := registryConfig(config.RegistryConfig{})
	require.Equal(t, config.DefaultLabelsPath(), cfg.LabelsPath)
	require.Equal(t, config.DefaultUploadsDir(), cfg.UploadsDir)
	require.Empty(t, cfg.AdminPassword)

	uploads := "/srv/fundus/uploads"
	cfg = registryConfig(config.RegistryConfig{Uploads: &uploads})
	require.Equal(t, uploads, cfg.UploadsDir)
}
