package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/cmd/xrf/cli"
	"github.com/meigma/xrf/cmd/xrf/commands"
	"github.com/meigma/xrf/internal/testutil"
	"github.com/meigma/xrf/ogf"
	"github.com/meigma/xrf/omf"
	"github.com/meigma/xrf/particles"
)

func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := &commands.App{
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(key string) string { return env[key] },
	}
	err := commands.Root(app).Execute(context.Background(), args)
	return stdout.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exit *cli.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, code, exit.Code)
}

func particlesFile(played string) *particles.File {
	return &particles.File{
		Header: particles.Header{Version: particles.HeaderVersion},
		Effects: []particles.Effect{{
			Version:      1,
			Name:         `explosions\smoke`,
			MaxParticles: 16,
			Sprite:       particles.Sprite{Shader: `particles\blend`, Texture: `pfx\pfx_smoke`},
			Actions:      []particles.Action{{Type: particles.ActionMove, Payload: &particles.Move{}}},
		}},
		Groups: []particles.Group{{
			Version: particles.GroupVersion,
			Name:    `explosions\smoke_group`,
			Effects: []particles.GroupEffect{{Name: played}},
		}},
	}
}

func TestParticlesCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "particles.xr")
	require.NoError(t, particlesFile(`explosions\smoke`).WriteFile(source))

	unpacked := filepath.Join(dir, "unpacked")
	out, err := execute(t, nil, "unpack-particles", "-p", source, "-d", unpacked)
	require.NoError(t, err)
	assert.Contains(t, out, "1 effects, 1 groups")
	assert.FileExists(t, filepath.Join(unpacked, particles.EffectsFile))

	packed := filepath.Join(dir, "packed.xr")
	_, err = execute(t, nil, "pack-particles", "--path", unpacked, "--dest", packed)
	require.NoError(t, err)

	out, err = execute(t, nil, "info-particles", "-p", packed, "--format", "yaml")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, 1, info["effects"])
	assert.Equal(t, 1, info["actions"])
	assert.Equal(t, 1, info["groups"])

	out, err = execute(t, nil, "repack-particles", "-p", source, "-d", filepath.Join(dir, "repacked.xr"))
	require.NoError(t, err)
	assert.Contains(t, out, "identical")

	_, err = execute(t, nil, "verify-particles", "-p", source)
	require.NoError(t, err)
	_, err = execute(t, nil, "verify-particles", "-p", unpacked, "--unpacked")
	require.NoError(t, err)
}

func TestVerifyParticlesFindings(t *testing.T) {
	t.Parallel()

	source := filepath.Join(t.TempDir(), "particles.xr")
	require.NoError(t, particlesFile("missing_effect").WriteFile(source))

	out, err := execute(t, nil, "verify-particles", "-p", source)
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "1 findings")
	assert.Contains(t, out, "missing_effect")
}

func TestDestinationNeedsForce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "particles.xr")
	require.NoError(t, particlesFile(`explosions\smoke`).WriteFile(source))
	dest := filepath.Join(dir, "unpacked")

	_, err := execute(t, nil, "unpack-particles", "-p", source, "-d", dest)
	require.NoError(t, err)
	stale := filepath.Join(dest, "stale.ltx")
	require.NoError(t, os.WriteFile(stale, []byte("[stale]\r\n"), 0o600))

	_, err = execute(t, nil, "unpack-particles", "-p", source, "-d", dest)
	require.ErrorContains(t, err, "--force")

	_, err = execute(t, nil, "unpack-particles", "-p", source, "-d", dest, "-f")
	require.NoError(t, err)
	assert.NoFileExists(t, stale)

	_, err = execute(t, nil, "repack-particles", "-p", source, "-d", source)
	require.ErrorContains(t, err, "--force")
}

func TestArchiveCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := []byte("[section]\r\nkey = value\r\n")
	testutil.WriteFile(t, dir, "db/gamedata.db0", testutil.BuildArchive(t, "gamedata", []testutil.ArchiveFile{
		{Name: `config\system.ltx`, Content: content},
		{Name: `textures\water.dds`, Content: []byte{1, 2, 3}},
	}))

	out, err := execute(t, nil, "unpack-archive", "-p", filepath.Join(dir, "db"), "-d", filepath.Join(dir, "out"), "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "1 archive(s), 2 file(s)")
	assert.Contains(t, out, "unpacked 2 files")
	got, err := os.ReadFile(filepath.Join(dir, "out", "gamedata", "config", "system.ltx"))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	out, err = execute(t, nil, "unpack-archive", "-p", filepath.Join(dir, "db"), "-d", filepath.Join(dir, "dry"), "--dry")
	require.NoError(t, err)
	assert.Contains(t, out, "read ")
	assert.NoDirExists(t, filepath.Join(dir, "dry"))

	out, err = execute(t, nil, "read-archive", "-p", filepath.Join(dir, "db"), "-n", `config\system.ltx`)
	require.NoError(t, err)
	assert.Equal(t, string(content), out)

	_, err = execute(t, nil, "read-archive", "-p", filepath.Join(dir, "db"), "-n", `textures\water.dds`)
	require.ErrorIs(t, err, chunk.ErrInvalidFormat)

	local := filepath.Join(dir, "out", "gamedata", "config", "system.ltx")
	require.NoError(t, os.WriteFile(local, []byte("[local]\r\n"), 0o600))
	_, err = execute(t, nil, "unpack-archive", "-p", filepath.Join(dir, "db"), "-d", filepath.Join(dir, "out"))
	require.ErrorContains(t, err, "--force")
	out, err = execute(t, nil, "unpack-archive", "-p", filepath.Join(dir, "db"), "-d", filepath.Join(dir, "out"), "--resume")
	require.NoError(t, err)
	assert.Contains(t, out, "unpacked 1 files")
	assert.Contains(t, out, "1 skipped")
	got, err = os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, []byte("[local]\r\n"), got)

	out, err = execute(t, nil, "info-archive", "-p", filepath.Join(dir, "db"), "--format", "yaml")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, 2, info["files"])
	assert.Equal(t, []any{"gamedata"}, info["roots"])
}

func TestLtxCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	system := testutil.WriteFile(t, dir, "config/system.ltx", []byte("[section]\nkey=value\n"))

	out, err := execute(t, nil, "format-ltx", "-p", filepath.Join(dir, "config"), "--check")
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "1 not formatted")

	_, err = execute(t, nil, "format-ltx", "-p", filepath.Join(dir, "config"))
	require.NoError(t, err)
	formatted, err := os.ReadFile(system)
	require.NoError(t, err)
	assert.Equal(t, "[section]\r\nkey = value\r\n", string(formatted))

	_, err = execute(t, nil, "format-ltx", "-p", filepath.Join(dir, "config"), "--check")
	require.NoError(t, err)

	_, err = execute(t, nil, "verify-ltx", "-p", filepath.Join(dir, "config"))
	require.NoError(t, err)

	testutil.WriteFile(t, dir, "config/broken.ltx", []byte("#include \"missing.ltx\"\r\n[a]\r\n"))
	out, err = execute(t, nil, "verify-ltx", "-p", filepath.Join(dir, "config"))
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "broken.ltx")
}

func TestModelCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := &ogf.File{
		Header:     ogf.Header{FormatVersion: 4, ModelType: 3},
		Bones:      ogf.Bones{{Name: "root_stalker"}},
		Kinematics: &ogf.Kinematics{SourceChunkID: ogf.KinematicsChunkID, MotionRefs: []string{"stalker_animation"}},
	}
	require.NoError(t, model.WriteFile(filepath.Join(dir, "stalker.ogf")))
	out, err := execute(t, nil, "info-ogf", "-p", filepath.Join(dir, "stalker.ogf"))
	require.NoError(t, err)
	assert.Regexp(t, `motion_refs: +stalker_animation`, out)
	assert.Regexp(t, `bones: +root_stalker`, out)

	motions := &omf.File{Parameters: omf.Parameters{Version: omf.MarksVersion}}
	require.NoError(t, motions.WriteFile(filepath.Join(dir, "stalker.omf")))
	out, err = execute(t, nil, "info-omf", "-p", filepath.Join(dir, "stalker.omf"), "--format", "yaml")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, 4, info["version"])
	assert.Equal(t, 0, info["bones"])
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "particles.xr")
	require.NoError(t, particlesFile(`explosions\smoke`).WriteFile(source))
	config := testutil.WriteFile(t, dir, "xrf.yaml", []byte("silent: true\n"))
	env := map[string]string{cli.ConfigEnv: config}

	out, err := execute(t, env, "verify-particles", "-p", source)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, env, "verify-particles", "-p", source, "--silent=false")
	require.NoError(t, err)
	assert.Contains(t, out, "verified particles")
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	_, err := execute(t, nil)
	require.ErrorContains(t, err, "command required")

	_, err = execute(t, nil, "unpack-everything")
	require.ErrorContains(t, err, `unknown command "unpack-everything"`)

	_, err = execute(t, nil, "info-spawn")
	require.ErrorContains(t, err, "--path is required")

	_, err = execute(t, nil, "info-spawn", "-p", filepath.Join(t.TempDir(), "missing.spawn"))
	require.ErrorIs(t, err, chunk.ErrIO)

	_, err = execute(t, nil, "info-spawn", "-p", "all.spawn", "--format", "xml")
	require.ErrorContains(t, err, `--format "xml"`)

	_, err = execute(t, nil, "info-spawn", "--bogus")
	require.ErrorContains(t, err, "unknown flag")

	_, err = execute(t, nil, "info-spawn", "--help")
	require.NoError(t, err)
}

func TestReadArchiveWritesStoredBytes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// "[мир]" in Windows-1251
	stored := []byte{'[', 0xEC, 0xE8, 0xF0, ']', '\r', '\n'}
	testutil.WriteFile(t, dir, "gamedata.db", testutil.BuildArchive(t, "", []testutil.ArchiveFile{
		{Name: `config\world.ltx`, Content: stored},
	}))
	archivePath := filepath.Join(dir, "gamedata.db")

	out, err := execute(t, nil, "read-archive", "-p", archivePath, "-n", `config\world.ltx`)
	require.NoError(t, err)
	assert.Equal(t, "[мир]\r\n", out)

	dest := filepath.Join(dir, "copy", "world.ltx")
	_, err = execute(t, nil, "read-archive", "-p", archivePath, "-n", `config\world.ltx`, "-d", dest)
	require.NoError(t, err)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	_, err = execute(t, nil, "read-archive", "-p", archivePath, "-n", `config\world.ltx`, "-d", dest)
	require.ErrorContains(t, err, "--force")
}
