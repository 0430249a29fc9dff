package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/xrf/cmd/xrf/cli"
	"github.com/meigma/xrf/particles"
)

func (e *env) particlesOptions() []particles.Option {
	return []particles.Option{particles.WithLogger(e.logger), particles.WithByteOrder(e.Order())}
}

func (a *App) unpackParticles() *cli.Command {
	var path, dest string
	var force bool
	return a.command("unpack-particles", "Unpack particles.xr into LTX files", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to particles.xr")
		destFlag(flags, &dest, "unpacked", "directory to export into")
		forceFlag(flags, &force, "replace an existing destination directory")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		if err := prepareDir(dest, force); err != nil {
			return err
		}
		f, err := particles.ReadFile(path, e.particlesOptions()...)
		if err != nil {
			return err
		}
		if err := f.ExportDir(dest, e.particlesOptions()...); err != nil {
			return err
		}
		e.summary("unpacked %s (%d effects, %d groups) into %s", path, len(f.Effects), len(f.Groups), dest)
		return nil
	})
}

func (a *App) packParticles() *cli.Command {
	var path, dest string
	var force bool
	return a.command("pack-particles", "Pack LTX files into particles.xr", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "directory produced by unpack-particles")
		destFlag(flags, &dest, "", "path of the resulting particles.xr")
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
		f, err := particles.ImportDir(path, e.particlesOptions()...)
		if err != nil {
			return err
		}
		if err := f.WriteFile(dest, e.particlesOptions()...); err != nil {
			return err
		}
		e.summary("packed %s into %s", path, dest)
		return nil
	})
}

func (a *App) repackParticles() *cli.Command {
	var path, dest string
	var force bool
	return a.command("repack-particles", "Read particles.xr and write it back", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to particles.xr")
		destFlag(flags, &dest, "", "path of the repacked file")
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
		f, err := particles.Read(source, e.particlesOptions()...)
		if err != nil {
			return err
		}
		if err := f.WriteFile(dest, e.particlesOptions()...); err != nil {
			return err
		}
		out, err := os.ReadFile(dest)
		if err != nil {
			return err
		}
		return e.compareDigests(path, source, dest, out)
	})
}

func (a *App) verifyParticles() *cli.Command {
	var path string
	var unpacked bool
	return a.command("verify-particles", "Check effect references of particles.xr", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to particles.xr, or its unpacked directory with --unpacked")
		flags.BoolVarP(&unpacked, "unpacked", "u", false, "verify a directory produced by unpack-particles")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		var (
			f   *particles.File
			err error
		)
		if unpacked {
			f, err = particles.ImportDir(path, e.particlesOptions()...)
		} else {
			f, err = particles.ReadFile(path, e.particlesOptions()...)
		}
		if err != nil {
			return fmt.Errorf("verify %s: %w", path, err)
		}

		found := f.Verify()
		problems := make([]string, 0, len(found))
		for _, finding := range found {
			problems = append(problems, finding.String())
		}
		e.summary("verified particles %s (%d effects, %d groups), %d findings",
			path, len(f.Effects), len(f.Groups), len(problems))
		return e.findings(problems, true)
	})
}

func (a *App) infoParticles() *cli.Command {
	var path string
	return a.command("info-particles", "Print a summary of particles.xr", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to particles.xr")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		f, err := particles.ReadFile(path, e.particlesOptions()...)
		if err != nil {
			return err
		}
		var actions, groupEffects int
		for i := range f.Effects {
			actions += len(f.Effects[i].Actions)
		}
		for i := range f.Groups {
			groupEffects += len(f.Groups[i].Effects)
		}
		return cli.Report{}.
			Add("path", path).
			Add("version", f.Header.Version).
			Add("effects", len(f.Effects)).
			Add("actions", actions).
			Add("groups", len(f.Groups)).
			Add("group_effects", groupEffects).
			Render(e.Stdout, e.Format)
	})
}
