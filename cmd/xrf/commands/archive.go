package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"

	"github.com/meigma/xrf"
	"github.com/meigma/xrf/archive"
	"github.com/meigma/xrf/cmd/xrf/cli"
	"github.com/meigma/xrf/internal/batch"
)

const mib = 1 << 20

func (e *env) openArchive(path string, opts ...xrf.Option) (*archive.Project, error) {
	opts = append([]xrf.Option{xrf.WithLogger(e.logger), xrf.WithWorkers(e.Workers)}, opts...)
	return xrf.OpenArchive(path, opts...)
}

func (a *App) unpackArchive() *cli.Command {
	var path, dest string
	var force, dry, resume bool
	return a.command("unpack-archive", "Unpack *.db archives into separate files", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to a *.db file or a directory of archives")
		destFlag(flags, &dest, "unpacked", "directory to unpack into")
		forceFlag(flags, &force, "replace an existing destination directory")
		flags.BoolVar(&dry, "dry", false, "read the archives without unpacking")
		flags.BoolVar(&resume, "resume", false, "keep an existing destination and skip files already unpacked")
	}, func(ctx context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		p, err := e.openArchive(path, xrf.WithSkipExisting(resume && !force))
		if err != nil {
			return err
		}
		if !e.Silent {
			fmt.Fprintf(e.Stdout, "%d archive(s), %d file(s), %.3f MiB compressed, %.3f MiB real\n",
				len(p.Archives), len(p.Files),
				float64(p.CompressedSize())/mib, float64(p.RealSize())/mib)
		}
		if dry {
			e.summary("read %s", path)
			return nil
		}
		if force || !resume {
			if err := prepareDir(dest, force); err != nil {
				return err
			}
		}

		result, err := p.UnpackParallel(ctx, dest)
		if err != nil {
			return err
		}
		e.summary("unpacked %d files into %s, %d skipped (prepare %s, unpack %s)",
			result.Files-len(result.Failed)-result.Skipped, dest, result.Skipped,
			result.PrepareDuration.Round(time.Millisecond), result.UnpackDuration.Round(time.Millisecond))
		problems := make([]string, 0, len(result.Failed))
		for _, failed := range result.Failed {
			problems = append(problems, failed.Error())
		}
		return e.findings(problems, true)
	})
}

func (a *App) infoArchive() *cli.Command {
	var path string
	return a.command("info-archive", "Print a summary of *.db archives", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to a *.db file or a directory of archives")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		p, err := e.openArchive(path)
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(p.Archives))
		roots := make([]string, 0, len(p.Archives))
		for _, ar := range p.Archives {
			paths = append(paths, ar.Path)
			if ar.Root != "" && !slices.Contains(roots, ar.Root) {
				roots = append(roots, ar.Root)
			}
		}
		var compressed int
		for _, f := range p.Files {
			if f.Compressed() {
				compressed++
			}
		}
		return cli.Report{}.
			Add("path", path).
			Add("archives", paths).
			Add("roots", roots).
			Add("files", len(p.Files)).
			Add("compressed_files", compressed).
			Add("compressed_size", p.CompressedSize()).
			Add("real_size", p.RealSize()).
			Render(e.Stdout, e.Format)
	})
}

func (a *App) readArchive() *cli.Command {
	var path, name, dest string
	var force bool
	return a.command("read-archive", "Print one text file stored in *.db archives", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to a *.db file or a directory of archives")
		flags.StringVarP(&name, "file", "n", "", `name of the file inside the archive, such as config\system.ltx`)
		destFlag(flags, &dest, "", "write the file here instead of printing it")
		forceFlag(flags, &force, "overwrite an existing destination file")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		if err := required("file", name); err != nil {
			return err
		}
		p, err := e.openArchive(path)
		if err != nil {
			return err
		}
		got, err := p.ReadFileAsString(name)
		if err != nil {
			return err
		}
		if dest == "" {
			_, err := fmt.Fprint(e.Stdout, got.Content)
			return err
		}
		if err := prepareFile(dest, force); err != nil {
			return err
		}
		if err := batch.WriteFile(dest, got.Raw); err != nil {
			return err
		}
		e.summary("read %s (%d bytes) into %s", got.Name, got.Size, dest)
		return nil
	})
}
