package compose

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/cmmoran/typecompose/pkg/composer"
	"github.com/cmmoran/typecompose/pkg/index"
	"github.com/cmmoran/typecompose/pkg/model"
	"github.com/cmmoran/typecompose/pkg/source"
)

// Load reads declaration documents from every input, which may be a file or
// a directory.
func Load(inputs ...string) ([]*model.FileResult, error) {
	var files []*model.FileResult
	for _, in := range inputs {
		fi, err := os.Stat(in)
		if err != nil {
			return nil, errors.Wrap(err, "stat input")
		}
		var loaded []*model.FileResult
		if fi.IsDir() {
			loaded, err = source.LoadDir(in)
		} else {
			loaded, err = source.LoadFile(in)
		}
		if err != nil {
			return nil, err
		}
		files = append(files, loaded...)
	}
	return files, nil
}

// Run loads and composes the inputs.
func Run(opts *composer.Options, inputs ...string) (*index.Types, error) {
	files, err := Load(inputs...)
	if err != nil {
		return nil, err
	}
	res, err := composer.NewWithOpts(opts).Compose(&composer.Input{Files: files})
	if err != nil {
		return nil, err
	}
	return index.New(res), nil
}

// Generate composes the inputs and writes the graph snapshot to outFile.
func Generate(opts *composer.Options, outFile string, inputs ...string) (*index.Types, error) {
	types, err := Run(opts, inputs...)
	if err != nil {
		return nil, err
	}
	data, err := types.Snapshot().YAML()
	if err != nil {
		return nil, errors.Wrap(err, "marshal snapshot")
	}
	if err = os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot directory")
	}
	if err = os.WriteFile(filepath.Clean(outFile), data, 0o644); err != nil {
		return nil, errors.Wrap(err, "write snapshot")
	}
	return types, nil
}
