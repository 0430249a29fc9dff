package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/xrf/cmd/xrf/cli"
	"github.com/meigma/xrf/spawn"
)

func (e *env) spawnOptions() []spawn.Option {
	return []spawn.Option{spawn.WithLogger(e.logger), spawn.WithByteOrder(e.Order())}
}

func (a *App) unpackSpawn() *cli.Command {
	var path, dest string
	var force bool
	return a.command("unpack-spawn", "Unpack a *.spawn file into LTX files", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to the *.spawn file")
		destFlag(flags, &dest, "unpacked", "directory to export into")
		forceFlag(flags, &force, "replace an existing destination directory")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		if err := prepareDir(dest, force); err != nil {
			return err
		}
		f, err := spawn.ReadFile(path, e.spawnOptions()...)
		if err != nil {
			return err
		}
		if err := f.ExportDir(dest, e.spawnOptions()...); err != nil {
			return err
		}
		e.summary("unpacked %s (%d objects, %d patrols) into %s",
			path, len(f.ALifeSpawns.Objects), len(f.Patrols.Patrols), dest)
		return nil
	})
}

func (a *App) packSpawn() *cli.Command {
	var path, dest string
	var force bool
	return a.command("pack-spawn", "Pack LTX files into a *.spawn file", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "directory produced by unpack-spawn")
		destFlag(flags, &dest, "", "path of the resulting *.spawn file")
		forceFlag(flags, &force, "overwrite an existing destination file")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		if err := required("dest", dest); err != nil {
			return err
		}
		if err := prepareFile(dest, force); err != nil {
			return err
		}
		f, err := spawn.ImportDir(path, e.spawnOptions()...)
		if err != nil {
			return err
		}
		if err := f.WriteFile(dest, e.spawnOptions()...); err != nil {
			return err
		}
		e.summary("packed %s into %s", path, dest)
		return nil
	})
}

func (a *App) repackSpawn() *cli.Command {
	var path, dest string
	var force bool
	return a.command("repack-spawn", "Read a *.spawn file and write it back", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to the *.spawn file")
		destFlag(flags, &dest, "", "path of the repacked *.spawn file")
		forceFlag(flags, &force, "overwrite an existing destination file")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		if err := required("dest", dest); err != nil {
			return err
		}
		if err := prepareFile(dest, force); err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		f, err := spawn.Read(source, e.spawnOptions()...)
		if err != nil {
			return err
		}
		if err := f.WriteFile(dest, e.spawnOptions()...); err != nil {
			return err
		}
		out, err := os.ReadFile(dest)
		if err != nil {
			return err
		}
		return e.compareDigests(path, source, dest, out)
	})
}

// compareDigests reports whether a re-encoded file matches its source
// byte for byte. A difference fails the command in strict mode.
func (e *env) compareDigests(sourceName string, source []byte, outName string, out []byte) error {
	sourceSum, outSum := cli.Digest(source), cli.Digest(out)
	e.logger.Debug("digests", slog.String("source", sourceSum), slog.String("output", outSum))
	if sourceSum == outSum {
		e.summary("repacked %s into %s, identical (blake3 %s)", sourceName, outName, sourceSum[:16])
		return nil
	}
	e.summary("repacked %s into %s, contents differ", sourceName, outName)
	return e.findings([]string{
		fmt.Sprintf("%s blake3 %s (%d bytes)", sourceName, sourceSum, len(source)),
		fmt.Sprintf("%s blake3 %s (%d bytes)", outName, outSum, len(out)),
	}, false)
}

func (a *App) verifySpawn() *cli.Command {
	var path string
	var unpacked bool
	return a.command("verify-spawn", "Check that a *.spawn file decodes and re-encodes unchanged", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to the *.spawn file, or its unpacked directory with --unpacked")
		flags.BoolVarP(&unpacked, "unpacked", "u", false, "verify a directory produced by unpack-spawn")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		if unpacked {
			f, err := spawn.ImportDir(path, e.spawnOptions()...)
			if err != nil {
				return err
			}
			if _, err := f.Bytes(e.spawnOptions()...); err != nil {
				return err
			}
			e.summary("verified unpacked spawn %s", path)
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		f, err := spawn.Read(source, e.spawnOptions()...)
		if err != nil {
			return err
		}
		out, err := f.Bytes(e.spawnOptions()...)
		if err != nil {
			return err
		}
		var problems []string
		if sum, again := cli.Digest(source), cli.Digest(out); sum != again {
			problems = append(problems, fmt.Sprintf("re-encoded file differs: blake3 %s, source %s", again, sum))
		}
		e.summary("verified spawn %s, %d findings", path, len(problems))
		return e.findings(problems, false)
	})
}

func (a *App) infoSpawn() *cli.Command {
	var path string
	return a.command("info-spawn", "Print a summary of a *.spawn file", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to the *.spawn file")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		f, err := spawn.ReadFile(path, e.spawnOptions()...)
		if err != nil {
			return err
		}
		return cli.Report{}.
			Add("path", path).
			Add("version", f.Header.Version).
			Add("guid", f.Header.GUID.String()).
			Add("graph_guid", f.Header.GraphGUID.String()).
			Add("levels", f.Header.LevelsCount).
			Add("objects", f.Header.ObjectsCount).
			Add("artefact_spawn_points", len(f.ArtefactSpawns.Nodes)).
			Add("patrols", len(f.Patrols.Patrols)).
			Add("graph_version", f.Graphs.Header.Version).
			Add("graph_vertices", f.Graphs.Header.VerticesCount).
			Add("graph_edges", f.Graphs.Header.EdgesCount).
			Add("graph_points", f.Graphs.Header.PointsCount).
			Render(e.Stdout, e.Format)
	})
}
