package blob

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/resample"
)

// WriteFile encodes ds and writes the file at path, replacing any existing file.
func WriteFile(path string, ds []*resample.Distribution, opts ...EncoderOption) error {
	data, err := Encode(ds, opts...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("%w: %w", errs.ErrIOFailure, err)
	}

	return nil
}

// ReadFile reads and decodes the distribution file at path.
func ReadFile(path string) ([]*resample.Distribution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIOFailure, err)
	}

	ds, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return ds, nil
}

// ReadFiles reads the files at paths in parallel. The i-th result holds the
// records of paths[i]. The first failure cancels the remaining reads.
func ReadFiles(ctx context.Context, paths []string) ([][]*resample.Distribution, error) {
	out := make([][]*resample.Distribution, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			ds, err := ReadFile(path)
			if err != nil {
				return err
			}
			out[i] = ds

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
