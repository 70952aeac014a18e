package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/cli/config"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"github.com/m-mizutani/relnotes/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// ErrGenerationFailed makes the generate command exit non-zero after the
// failure message has been printed
var ErrGenerationFailed = goerr.New("release notes generation failed")

func cmdGenerate() *cli.Command {
	var (
		repoURL    string
		noPDF      bool
		backendCfg config.Backend
		githubCfg  config.GitHub
		filterCfg  config.Filter
		fileCfg    config.File
		outputCfg  = config.Output{DefaultPath: types.ReportFileName}
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Aliases:     []string{"r"},
			Usage:       "GitHub repository URL, e.g. https://github.com/owner/repo",
			Required:    true,
			Destination: &repoURL,
			Sources:     cli.EnvVars("RELNOTES_REPO"),
		},
		&cli.BoolFlag{
			Name:        "no-pdf",
			Usage:       "Only print the release notes",
			Destination: &noPDF,
		},
	}
	flags = append(flags, backendCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, filterCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate release notes for a repository",
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, fileCfg.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			gen, err := newGenerator(&backendCfg, &githubCfg)
			if err != nil {
				return err
			}

			session := usecase.NewSession(gen,
				model.SetRepoURL(repoURL),
				model.SetFilters(filterCfg.FilterSet()),
			)

			state, err := session.Generate(ctx)
			if err != nil {
				return err
			}

			printState(os.Stdout, state)
			if state.Failed {
				return goerr.Wrap(ErrGenerationFailed, "no document written", goerr.V("repo_url", repoURL))
			}
			if noPDF {
				return nil
			}

			reportUC, closer, err := newReportUseCase(ctx, gen, &outputCfg)
			if err != nil {
				return err
			}
			defer closer()

			report := state.Report()
			artifacts, err := reportUC.Publish(ctx, &report)
			if err != nil {
				return err
			}

			for _, a := range artifacts {
				logger.Debug("Artifact written", "name", a.Name, "size", a.Size)
				fmt.Fprintf(os.Stdout, "%s %s\n", color.GreenString("Saved"), a.Location)
			}
			return nil
		},
	}
}

// printState writes the result of a generation in a human readable form
func printState(w io.Writer, state model.State) {
	title := color.New(color.Bold, color.FgCyan)
	heading := color.New(color.Bold)

	if state.Failed {
		color.New(color.FgRed).Fprintln(w, state.Notes.Text)
		return
	}

	name := state.RepoURL
	if repo, err := model.ParseRepoURL(state.RepoURL); err == nil {
		name = repo.FullName()
	}
	title.Fprintf(w, "Release Notes for %s\n\n", name)

	if state.Summary != "" {
		heading.Fprintln(w, "Summary")
		fmt.Fprintf(w, "%s\n\n", state.Summary)
	}

	heading.Fprintln(w, "Release Notes")
	items := state.Notes.Items()
	if len(items) == 0 {
		color.New(color.Faint).Fprintln(w, "(no entries)")
	}
	for i, item := range items {
		if state.Notes.Kind == model.NotesKindText {
			fmt.Fprintln(w, item)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", color.YellowString("%d.", i+1), item)
	}

	if len(state.Authors) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Authors")
		for _, a := range state.Authors {
			fmt.Fprintf(w, "- %s\n", a.Name)
		}
	}
}
