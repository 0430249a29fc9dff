package cli_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/meigma/xrf/cmd/xrf/cli"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "xrf.yaml", "workers: 4\nstrict: true\nbyte_order: big\n"},
		{"jsonc", "xrf.jsonc", "{\n  // parallel unpack\n  \"workers\": 4,\n  \"strict\": true,\n  \"byte_order\": \"big\",\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := cli.LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			require.NotNil(t, c.Workers)
			assert.Equal(t, 4, *c.Workers)
			require.NotNil(t, c.Strict)
			assert.True(t, *c.Strict)
			assert.Nil(t, c.Silent)
			assert.Equal(t, "big", c.ByteOrder)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	for name, tt := range map[string]struct{ file, content string }{
		"unknown yaml key":  {"xrf.yaml", "threads: 4\n"},
		"unknown json key":  {"xrf.json", `{"threads": 4}`},
		"bad byte order":    {"xrf.yaml", "byte_order: middle\n"},
		"unknown extension": {"xrf.toml", "workers = 4\n"},
	} {
		_, err := cli.LoadConfig(writeConfig(t, tt.file, tt.content))
		require.Error(t, err, name)
	}

	_, err := cli.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGlobalsResolve(t *testing.T) {
	t.Parallel()

	config := writeConfig(t, "xrf.yaml", "workers: 4\nverbose: true\nbyte_order: big\n")
	env := func(key string) string {
		if key == cli.ConfigEnv {
			return config
		}
		return ""
	}

	var g cli.Globals
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	g.AddFlags(flags)
	require.NoError(t, flags.Parse([]string{"--workers", "8"}))
	require.NoError(t, g.Resolve(flags, env))

	assert.Equal(t, 8, g.Workers)
	assert.True(t, g.Verbose)
	assert.Equal(t, binary.BigEndian, g.Order())
	assert.Equal(t, cli.FormatText, g.Format)
}

func TestGlobalsDefaults(t *testing.T) {
	t.Parallel()

	var g cli.Globals
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	g.AddFlags(flags)
	require.NoError(t, flags.Parse(nil))
	require.NoError(t, g.Resolve(flags, nil))
	assert.Equal(t, binary.LittleEndian, g.Order())
	assert.Zero(t, g.Workers)

	require.NoError(t, flags.Parse([]string{"--byte-order", "sideways"}))
	require.ErrorContains(t, g.Resolve(flags, nil), "sideways")
}

func TestReportRender(t *testing.T) {
	t.Parallel()

	report := cli.Report{}.
		Add("path", "all.spawn").
		Add("objects", 12).
		Add("motions", []string{"idle", "walk"}).
		Add("parts", []string{})

	var text bytes.Buffer
	require.NoError(t, report.Render(&text, cli.FormatText))
	assert.Equal(t, "path:    all.spawn\nobjects: 12\nmotions: idle, walk\nparts:   -\n", text.String())

	var out bytes.Buffer
	require.NoError(t, report.Render(&out, cli.FormatYAML))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, map[string]any{
		"path":    "all.spawn",
		"objects": 12,
		"motions": []any{"idle", "walk"},
		"parts":   []any{},
	}, decoded)
	assert.Less(t, strings.Index(out.String(), "path:"), strings.Index(out.String(), "objects:"))
	assert.Less(t, strings.Index(out.String(), "objects:"), strings.Index(out.String(), "motions:"))
}

func TestDigest(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", cli.Digest(nil))
	assert.NotEqual(t, cli.Digest([]byte("a")), cli.Digest([]byte("b")))
}

func TestCommandExecute(t *testing.T) {
	t.Parallel()

	var got []string
	var name string
	var help bytes.Buffer
	root := &cli.Command{
		Name: "xrf",
		Help: &help,
		Subcommands: []*cli.Command{{
			Name:    "greet",
			Summary: "Print a greeting",
			Flags: func() *pflag.FlagSet {
				flags := pflag.NewFlagSet("greet", pflag.ContinueOnError)
				flags.StringVarP(&name, "name", "n", "", "who to greet")
				return flags
			},
			Run: func(_ context.Context, _ *pflag.FlagSet, args []string) error {
				got = args
				return nil
			},
		}},
	}

	require.NoError(t, root.Execute(context.Background(), []string{"greet", "-n", "stalker", "extra"}))
	assert.Equal(t, "stalker", name)
	assert.Equal(t, []string{"extra"}, got)

	require.NoError(t, root.Execute(context.Background(), []string{"--help"}))
	assert.Contains(t, help.String(), "greet")
	assert.Contains(t, help.String(), "Print a greeting")

	require.Error(t, root.Execute(context.Background(), []string{"wave"}))
	require.Error(t, root.Execute(context.Background(), []string{"greet", "--bogus"}))
}
