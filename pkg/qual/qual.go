// Package qual averages one numeric column of a tab-delimited variant-call file.
package qual

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"varpipe/pkg/model"
	"varpipe/pkg/system"

	"github.com/klauspost/compress/gzip"
)

// AverageQual averages the QUAL column of a VCF, skipping '#' header lines.
func AverageQual(path string) (float64, error) {
	return AverageField(path, model.DefaultQualField, model.DefaultCommentPrefix)
}

// AverageField opens path through system.AppFs and averages column field
// (0-based) over every line that does not start with commentPrefix. Paths
// ending in ".gz" are decompressed on the fly.
func AverageField(path string, field int, commentPrefix string) (avg float64, err error) {
	f, err := system.AppFs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, &NotFoundError{Path: path, Err: err}
		}
		return 0, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return 0, fmt.Errorf("error reading %s: %w", path, gzErr)
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("error reading %s: %w", path, cerr)
			}
		}()
		r = gz
	}

	avg, err = Average(r, field, commentPrefix)
	if err != nil {
		return 0, err
	}
	return avg, nil
}

// Average is AverageField over an already open stream. Lines end at "\n",
// "\r\n" or a bare "\r". A stream with no records averages to 0.
func Average(r io.Reader, field int, commentPrefix string) (float64, error) {
	if field < 0 {
		return 0, fmt.Errorf("field index must be non-negative, got %d", field)
	}
	if commentPrefix == "" {
		return 0, fmt.Errorf("comment prefix cannot be empty")
	}

	var sum float64
	var count int

	lineNo := 0
	br := bufio.NewReader(r)
	for {
		chunk, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return 0, fmt.Errorf("line %d: %w", lineNo+1, readErr)
		}
		if chunk == "" && readErr == io.EOF {
			break
		}

		chunk = strings.TrimSuffix(strings.TrimSuffix(chunk, "\n"), "\r")
		for _, line := range strings.Split(chunk, "\r") {
			lineNo++
			if strings.HasPrefix(line, commentPrefix) {
				continue
			}
			columns := strings.Split(strings.TrimSpace(line), "\t")
			if len(columns) <= field {
				return 0, &MalformedRecordError{Line: lineNo, Fields: len(columns), Want: field + 1}
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(columns[field]), 64)
			if err != nil {
				return 0, &ParseError{Line: lineNo, Value: columns[field], Err: err}
			}
			sum += value
			count++
		}

		if readErr == io.EOF {
			break
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}
