package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sarang095/dcrx/internal/image"
	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/resolve"
)

var (
	inspectKinds   []string
	inspectResolve bool
	inspectFlags   resolveFlags
)

type inspectEntry struct {
	Index int                     `yaml:"index"`
	Kind  instruction.Kind        `yaml:"kind"`
	Text  string                  `yaml:"text"`
	Value instruction.Instruction `yaml:"value"`
}

type inspectReport struct {
	Image        string         `yaml:"image"`
	Files        []string       `yaml:"files,omitempty"`
	Values       resolve.Values `yaml:"values,omitempty"`
	Instructions []inspectEntry `yaml:"instructions"`
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the typed instructions of a Dockerfile as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectFile,
	}
	cmd.Flags().StringSliceVarP(&inspectKinds, "kind", "k", nil, "Only show these instruction kinds, e.g. run,copy")
	cmd.Flags().BoolVarP(&inspectResolve, "resolve", "r", false, "Resolve build arguments before printing")
	inspectFlags.register(cmd.Flags())
	return cmd
}

func inspectFile(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)

	kinds, err := parseKinds(inspectKinds)
	if err != nil {
		return err
	}

	path := args[0]
	doc, err := image.FromFile(path, cfg.ParserOptions(path))
	if err != nil {
		return err
	}

	report := inspectReport{Image: doc.FullName(), Files: doc.Files()}
	if inspectResolve {
		buildArgs, err := inspectFlags.defaults()
		if err != nil {
			return err
		}
		opts := cfg.ResolveOptions(buildArgs, inspectFlags.skip...)
		report.Values = doc.Values(opts)
		doc = doc.ResolveWith(opts)
	}
	report.Instructions = entries(doc, kinds)

	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	out.Output(string(data))
	return nil
}

// entries keeps each instruction's index in the full document
func entries(doc *image.Document, kinds []instruction.Kind) []inspectEntry {
	keep := make(map[instruction.Kind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}

	out := make([]inspectEntry, 0, doc.Len())
	for i, inst := range doc.Instructions() {
		if len(keep) > 0 && !keep[inst.Kind()] {
			continue
		}
		out = append(out, inspectEntry{Index: i, Kind: inst.Kind(), Text: inst.String(), Value: inst})
	}
	return out
}
