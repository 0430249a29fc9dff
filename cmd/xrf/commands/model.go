package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/meigma/xrf"
	"github.com/meigma/xrf/cmd/xrf/cli"
)

func (a *App) infoOgf() *cli.Command {
	var path string
	return a.command("info-ogf", "Print a summary of an *.ogf model", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to the *.ogf file")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		f, err := xrf.OpenModel(path, xrf.WithLogger(e.logger), xrf.WithByteOrder(e.Order()))
		if err != nil {
			return err
		}
		bones := make([]string, 0, len(f.Bones))
		for _, b := range f.Bones {
			bones = append(bones, b.Name)
		}
		report := cli.Report{}.
			Add("path", path).
			Add("format_version", f.Header.FormatVersion).
			Add("model_type", f.Header.ModelType).
			Add("shader_id", f.Header.ShaderID)
		if f.Texture != nil {
			report = report.Add("texture", f.Texture.Name).Add("shader", f.Texture.Shader)
		}
		if f.Description != nil {
			report = report.Add("source", f.Description.Source).Add("creator", f.Description.Creator)
		}
		return report.
			Add("children", len(f.Children)).
			Add("bones", bones).
			Add("motion_refs", f.MotionRefs()).
			Render(e.Stdout, e.Format)
	})
}

func (a *App) infoOmf() *cli.Command {
	var path string
	return a.command("info-omf", "Print a summary of an *.omf motion file", func(flags *pflag.FlagSet) {
		pathFlag(flags, &path, "path to the *.omf file")
	}, func(_ context.Context, e *env) error {
		if err := required("path", path); err != nil {
			return err
		}
		f, err := xrf.OpenMotions(path, xrf.WithLogger(e.logger), xrf.WithByteOrder(e.Order()))
		if err != nil {
			return err
		}
		parts := make([]string, 0, len(f.Parameters.Parts))
		for _, p := range f.Parameters.Parts {
			parts = append(parts, p.Name)
		}
		motions := make([]string, 0, len(f.Motions))
		for _, m := range f.Motions {
			motions = append(motions, m.Name)
		}
		return cli.Report{}.
			Add("path", path).
			Add("version", f.Parameters.Version).
			Add("parts", parts).
			Add("bones", f.BonesCount()).
			Add("motions", motions).
			Render(e.Stdout, e.Format)
	})
}
