package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/meigma/xrf/cmd/xrf/cli"
	"github.com/meigma/xrf/ltx"
)

func (e *env) openLtx(path string) (*ltx.Project, error) {
	return ltx.OpenProject(path, ltx.WithLogger(e.logger), ltx.WithStrict(e.Strict))
}

func (a *App) verifyLtx() *cli.Command {
	var path string
	return a.command("verify-ltx", "Load LTX files with includes and inheritance applied", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to an *.ltx file or a directory of them")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		p, err := e.openLtx(path)
		if err != nil {
			return err
		}
		report, err := p.Verify()
		if err != nil {
			return err
		}
		problems := make([]string, 0, len(report.Findings))
		for _, f := range report.Findings {
			problems = append(problems, f.String())
		}
		e.summary("verified %d ltx files (%d sections), %d findings", report.Files, report.Sections, len(problems))
		return e.findings(problems, true)
	})
}

func (a *App) formatLtx() *cli.Command {
	var path string
	var check bool
	return a.command("format-ltx", "Rewrite LTX files in canonical form", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to an *.ltx file or a directory of them")
		flags.BoolVar(&check, "check", false, "list files that are not formatted without changing them")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		p, err := e.openLtx(path)
		if err != nil {
			return err
		}
		report, err := p.Format(!check)
		if err != nil {
			return err
		}
		problems := make([]string, 0, len(report.Findings)+len(report.Changed))
		for _, f := range report.Findings {
			problems = append(problems, f.String())
		}
		if check {
			for _, changed := range report.Changed {
				problems = append(problems, changed+": not formatted")
			}
			e.summary("checked %d ltx files, %d not formatted", report.Files, len(report.Changed))
		} else {
			e.summary("formatted %d ltx files, %d changed", report.Files, len(report.Changed))
		}
		return e.findings(problems, true)
	})
}
