package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/mchmarny/ucdash/pkg/auth"
	"github.com/mchmarny/ucdash/pkg/net"
	"github.com/mchmarny/ucdash/pkg/resource"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	assetsFlagName        = "assets"
	milestonesURLFlagName = "milestones-url"
	roadmapURLFlagName    = "roadmap-url"
)

func newAssetsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    assetsFlagName,
		Aliases: []string{"a"},
		Usage:   "Directory holding the milestones image and the roadmap deck (default: from config)",
	}
}

func newResourcesCmd() *cli.Command {
	return &cli.Command{
		Name:  "resources",
		Usage: "Inspect or download the optional local resources",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show which local resources are present",
				Flags:  []cli.Flag{newAssetsFlag()},
				Action: cmdResourcesList,
			},
			{
				Name:   "fetch",
				Usage:  "Download the milestones image and roadmap deck into the assets directory",
				Action: cmdResourcesFetch,
				Flags: []cli.Flag{
					newAssetsFlag(),
					&cli.StringFlag{
						Name:  milestonesURLFlagName,
						Usage: "URL of the milestones image (png or jpg)",
					},
					&cli.StringFlag{
						Name:  roadmapURLFlagName,
						Usage: "URL of the roadmap PowerPoint deck",
					},
				},
			},
		},
	}
}

type resourceStatus struct {
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Found bool   `json:"found" yaml:"found"`
	Hint  string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

func assetsDir(cmd *cli.Command, app *appConfig) string {
	if cmd.IsSet(assetsFlagName) {
		return cmd.String(assetsFlagName)
	}
	return app.AssetsDir
}

func localStatus(dir string) []resourceStatus {
	items := []struct {
		name       string
		candidates []string
	}{
		{"milestones", resource.MilestoneCandidates},
		{"roadmap", []string{resource.RoadmapDeckFile}},
	}

	list := make([]resourceStatus, 0, len(items))
	for _, it := range items {
		s := resourceStatus{Name: it.name}
		p, err := resource.FindLocal(dir, it.candidates...)
		if err != nil {
			s.Hint = resource.Hint(err)
		} else {
			s.Path = p
			s.Found = true
		}
		list = append(list, s)
	}
	return list
}

func cmdResourcesList(_ context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)
	list := localStatus(assetsDir(cmd, app))

	if app.Format != formatTable {
		return encode(app.Out, app.Format, list)
	}
	for _, s := range list {
		if s.Found {
			fmt.Fprintf(app.Out, "%-11s %s\n", s.Name, s.Path)
			continue
		}
		fmt.Fprintf(app.Out, "%-11s missing: %s\n", s.Name, s.Hint)
	}
	return nil
}

func cmdResourcesFetch(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)
	dir := assetsDir(cmd, app)

	type job struct{ url, name string }
	var jobs []job
	if u := cmd.String(milestonesURLFlagName); u != "" {
		jobs = append(jobs, job{u, milestoneFileName(u)})
	}
	if u := cmd.String(roadmapURLFlagName); u != "" {
		jobs = append(jobs, job{u, resource.RoadmapDeckFile})
	}
	if len(jobs) == 0 {
		return errors.New("nothing to fetch, set --milestones-url and/or --roadmap-url")
	}

	store := &auth.TokenStore{Dir: app.Dir}
	token, err := store.Load()
	if err != nil && !errors.Is(err, auth.ErrNoToken) {
		slog.Debug("error loading token", "error", err)
	}
	client, err := net.GetClient(ctx, token)
	if err != nil {
		return errors.Wrap(err, "creating http client")
	}

	g, gctx := errgroup.WithContext(ctx)
	paths := make([]string, len(jobs))
	for i, j := range jobs {
		g.Go(func() error {
			p, err := resource.Fetch(gctx, client, j.url, dir, j.name)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "fetching resources")
	}

	for _, p := range paths {
		fmt.Fprintf(app.Out, "saved %s\n", p)
	}
	return nil
}

// milestoneFileName keeps the image extension from the URL so the file matches
// one of the milestone candidates.
func milestoneFileName(u string) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(u, "?", 2)[0]))
	for _, c := range resource.MilestoneCandidates {
		if path.Ext(c) == ext {
			return c
		}
	}
	return resource.MilestoneCandidates[0]
}
