package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Sarang095/dcrx/internal/image"
)

var (
	validatePrint bool
	validateCheck bool
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Parse Dockerfiles and report invalid instructions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  validateFiles,
	}
	cmd.Flags().BoolVarP(&validatePrint, "print", "p", false, "Print each document as dcrx renders it")
	cmd.Flags().BoolVar(&validateCheck, "check", true, "Also check the rendered document with the BuildKit parser")
	return cmd
}

func validateFiles(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)

	failed := 0
	for _, path := range args {
		doc, err := image.FromFile(path, cfg.ParserOptions(path))
		if err == nil && validateCheck {
			err = doc.Check()
		}
		if err != nil {
			out.Errorf("%s", err)
			failed++
			continue
		}

		out.Successf("%s: Valid! (%d instructions)", path, doc.Len())
		if validatePrint {
			out.Output(out.Faint(doc.String()))
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d files are invalid", failed, len(args))
	}
	return nil
}
