// Package buildcontext packages a document and the local files it references
// into a tar stream suitable as an image build context.
package buildcontext

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/pkg/archive"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Sarang095/dcrx/internal/image"
	"github.com/Sarang095/dcrx/internal/instruction"
)

var ErrOutsideContext = errors.New("path is outside the build context")

type Options struct {
	// ContextDir is the root of the build context; defaults to the
	// document's Path
	ContextDir string
	// IgnoreFile defaults to .dockerignore inside ContextDir
	IgnoreFile string
	// Compression applies to the whole stream; the zero value is uncompressed
	Compression archive.Compression
}

func (o Options) withDefaults(doc *image.Document) Options {
	if o.ContextDir == "" {
		o.ContextDir = doc.Path
	}
	if o.ContextDir == "" {
		o.ContextDir = "."
	}
	if o.IgnoreFile == "" {
		o.IgnoreFile = filepath.Join(o.ContextDir, DockerIgnoreFilename)
	}
	return o
}

// Files returns the context-relative paths the archive will include for doc,
// after glob expansion and .dockerignore filtering.
func Files(doc *image.Document, opts Options) ([]string, error) {
	opts = opts.withDefaults(doc)
	rules, err := loadIgnore(opts.IgnoreFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", opts.IgnoreFile)
	}
	return contextFiles(doc, opts.ContextDir, rules)
}

// Write streams a tar archive of the build context to w. The rendered
// document is stored under its Filename, replacing any file of that name in
// the context.
func Write(w io.Writer, doc *image.Document, opts Options) error {
	if err := doc.Err(); err != nil {
		return errors.Wrap(err, "cannot package an invalid document")
	}
	opts = opts.withDefaults(doc)

	rules, err := loadIgnore(opts.IgnoreFile)
	if err != nil {
		return errors.Wrapf(err, "reading %s", opts.IgnoreFile)
	}
	files, err := contextFiles(doc, opts.ContextDir, rules)
	if err != nil {
		return err
	}

	filename := doc.Filename
	if filename == "" {
		filename = image.DefaultFilename
	}
	content := doc.Bytes()

	var stream io.ReadCloser
	if len(files) > 0 {
		stream, err = archive.TarWithOptions(opts.ContextDir, &archive.TarOptions{
			IncludeFiles:    files,
			ExcludePatterns: rules.patterns,
			Compression:     archive.Uncompressed,
		})
		if err != nil {
			return errors.Wrapf(err, "archiving %s", opts.ContextDir)
		}
	} else {
		stream = emptyTar()
	}

	stream = archive.ReplaceFileTarWrapper(stream, map[string]archive.TarModifierFunc{
		filename: func(_ string, _ *tar.Header, _ io.Reader) (*tar.Header, []byte, error) {
			return &tar.Header{
				Name:     filename,
				Mode:     0o644,
				Size:     int64(len(content)),
				Typeflag: tar.TypeReg,
				ModTime:  time.Unix(0, 0),
			}, content, nil
		},
	})
	defer stream.Close()

	out, err := archive.CompressStream(w, opts.Compression)
	if err != nil {
		return errors.Wrap(err, "compressing build context")
	}
	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		return errors.Wrap(err, "writing build context")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "writing build context")
	}
	log.Debugf("wrote build context for %s with %d referenced paths", doc.FullName(), len(files))
	return nil
}

func contextFiles(doc *image.Document, contextDir string, rules *ignoreRules) ([]string, error) {
	files := make([]string, 0)
	seen := map[string]bool{}

	for _, source := range doc.Files() {
		for _, name := range strings.Fields(source) {
			if instruction.HasTemplate(name) {
				log.Debugf("skipping unresolved source %q", name)
				continue
			}
			matches, err := expand(contextDir, name)
			if err != nil {
				return nil, err
			}
			for _, rel := range matches {
				if seen[rel] {
					continue
				}
				seen[rel] = true
				if rel != "." && rules.ignored(rel) {
					log.Debugf("%s is excluded by %s", rel, DockerIgnoreFilename)
					continue
				}
				files = append(files, rel)
			}
		}
	}
	return files, nil
}

// expand resolves one source against the context directory. Globs must match
// at least one file; plain paths must exist.
func expand(contextDir, name string) ([]string, error) {
	rel := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.Wrap(ErrOutsideContext, name)
	}

	full := filepath.Join(contextDir, rel)
	if strings.ContainsAny(rel, "*?[") {
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", name)
		}
		if len(matches) == 0 {
			return nil, errors.Wrapf(os.ErrNotExist, "no files match %s", name)
		}
		out := make([]string, 0, len(matches))
		for _, m := range matches {
			r, err := filepath.Rel(contextDir, m)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	}

	if _, err := os.Stat(full); err != nil {
		return nil, errors.Wrapf(err, "referenced file %s", name)
	}
	return []string{rel}, nil
}

func emptyTar() io.ReadCloser {
	var buf bytes.Buffer
	_ = tar.NewWriter(&buf).Close()
	return io.NopCloser(&buf)
}
