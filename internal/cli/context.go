package cli

import (
	"io"
	"os"

	"github.com/docker/docker/pkg/archive"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Sarang095/dcrx/internal/buildcontext"
	"github.com/Sarang095/dcrx/internal/image"
)

var (
	contextOutput  string
	contextDir     string
	contextGzip    bool
	contextResolve resolveFlags
)

func newContextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context FILE",
		Short: "Write a build context tar holding the Dockerfile and the files it copies",
		Args:  cobra.ExactArgs(1),
		RunE:  writeContext,
	}
	cmd.Flags().StringVarP(&contextOutput, "output", "o", "", "Archive to write, - for stdout")
	cmd.Flags().StringVarP(&contextDir, "context", "C", "", "Build context directory, defaults to the Dockerfile's directory")
	cmd.Flags().BoolVarP(&contextGzip, "gzip", "z", false, "Compress the archive with gzip")
	contextResolve.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func writeContext(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)

	path := args[0]
	doc, err := image.FromFile(path, cfg.ParserOptions(path))
	if err != nil {
		return err
	}
	buildArgs, err := contextResolve.defaults()
	if err != nil {
		return err
	}
	doc = doc.ResolveWith(cfg.ResolveOptions(buildArgs, contextResolve.skip...))

	opts := buildcontext.Options{ContextDir: contextDir}
	if contextGzip {
		opts.Compression = archive.Gzip
	}

	var w io.Writer = cmd.OutOrStdout()
	if contextOutput != "-" {
		f, err := os.Create(contextOutput)
		if err != nil {
			return errors.Wrapf(err, "creating %s", contextOutput)
		}
		defer f.Close()
		w = f
	}

	if err := buildcontext.Write(w, doc, opts); err != nil {
		return err
	}
	if contextOutput != "-" {
		files, _ := buildcontext.Files(doc, opts)
		out.Successf("Wrote %s (%s and %d files)", contextOutput, doc.Filename, len(files))
	}
	return nil
}
