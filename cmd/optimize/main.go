package main

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/Sarang095/dcrx/internal/config"
	"github.com/Sarang095/dcrx/internal/image"
	"github.com/Sarang095/dcrx/internal/optimizer"
)

func main() {
	dockerfilePath := flag.StringP("dockerfile", "f", "Dockerfile", "Path to the Dockerfile")
	outputPath := flag.StringP("output", "o", "Dockerfile.optimized", "Path for the optimized Dockerfile")
	flag.Parse()

	if err := run(*dockerfilePath, *outputPath); err != nil {
		log.Fatal(err)
	}
}

func run(dockerfilePath, outputPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.Level())

	doc, err := image.FromFile(dockerfilePath, cfg.ParserOptions(dockerfilePath))
	if err != nil {
		return errors.Wrap(err, "failed to parse Dockerfile")
	}

	optimized, err := optimizer.Optimize(doc)
	if err != nil {
		return errors.Wrap(err, "failed to optimize Dockerfile")
	}

	written, err := optimized.WriteFile(outputPath)
	if err != nil {
		return errors.Wrap(err, "failed to write optimized Dockerfile")
	}

	fmt.Printf("Optimized %s: %d -> %d instructions, saved to %s\n", dockerfilePath, doc.Len(), optimized.Len(), written)
	return nil
}
