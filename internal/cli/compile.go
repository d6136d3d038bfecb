package cli

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sarang095/dcrx/internal/image"
	"github.com/Sarang095/dcrx/internal/optimizer"
	"github.com/Sarang095/dcrx/internal/resolve"
)

var (
	compileOutput    string
	compileSquashRun bool
	compileResolve   resolveFlags
)

func newCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile FILE...",
		Short: "Resolve build arguments and write the rendered Dockerfiles",
		Long: `Resolve build arguments and write the rendered Dockerfiles.

Without --output the documents are printed to stdout in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: compileFiles,
	}
	cmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Directory to write the compiled files to")
	cmd.Flags().BoolVar(&compileSquashRun, "squash-run", false, "Combine consecutive RUN instructions")
	compileResolve.register(cmd.Flags())
	return cmd
}

func compileFiles(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)

	buildArgs, err := compileResolve.defaults()
	if err != nil {
		return err
	}
	opts := cfg.ResolveOptions(buildArgs, compileResolve.skip...)

	targets, err := outputPaths(compileOutput, args)
	if err != nil {
		return err
	}

	docs := make([]*image.Document, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := compileFile(path, opts)
			if err != nil {
				return err
			}
			if targets != nil {
				if _, err := doc.WriteFile(targets[i]); err != nil {
					return err
				}
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, doc := range docs {
		if targets == nil {
			out.Output(doc.String())
			continue
		}
		out.Successf("%s -> %s", args[i], targets[i])
	}
	return nil
}

func compileFile(path string, opts resolve.Options) (*image.Document, error) {
	doc, err := image.FromFile(path, cfg.ParserOptions(path))
	if err != nil {
		return nil, err
	}
	log.Debugf("%s: resolving %v", path, doc.Values(opts).Names())
	doc = doc.ResolveWith(opts)

	if compileSquashRun {
		doc, err = optimizer.Optimize(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "optimizing %s", path)
		}
	}
	return doc, nil
}

// outputPaths maps each input to its file under dir. It returns nil when dir
// is empty.
func outputPaths(dir string, inputs []string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	seen := make(map[string]string, len(inputs))
	paths := make([]string, len(inputs))
	for i, input := range inputs {
		target := filepath.Join(dir, filepath.Base(input))
		if prev, ok := seen[target]; ok {
			return nil, errors.Errorf("%s and %s would both be written to %s", prev, input, target)
		}
		seen[target] = input
		paths[i] = target
	}
	return paths, nil
}
