package scan

import (
	"context"
	"errors"
	"io"
)

// Collect reads every line from source and extracts diagnostics file by
// file. The source is not closed.
func Collect(ctx context.Context, source Source, extractor Extractor) (*Result, error) {
	result := &Result{}

	var batch []Line
	flush := func() {
		if len(batch) == 0 {
			return
		}
		result.Sources = append(result.Sources, batch[0].Source)
		result.Diagnostics = append(result.Diagnostics, extractor.Extract(batch)...)
		batch = batch[:0]
	}

	for {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		result.LinesProcessed++
		if len(batch) > 0 && batch[0].Source != line.Source {
			flush()
		}
		batch = append(batch, *line)
	}
	flush()

	return result, nil
}
