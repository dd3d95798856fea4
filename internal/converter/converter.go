package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/asticode/go-astisub"

	"github.com/thomaslty/ass-to-srt/pkg/logger"
)

var (
	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
	utf16LEBOM = []byte{0xff, 0xfe}
	utf16BEBOM = []byte{0xfe, 0xff}
)

// Converter turns a single ASS/SSA file into an SRT file. Parsing and
// serialization are delegated to go-astisub; the converter owns decoding
// checks and the atomic write of the destination.
type Converter struct{}

func New() *Converter {
	return &Converter{}
}

// Convert reads src, parses it as ASS/SSA and writes the SRT rendition to dst.
// The destination is written through a temp file and renamed into place, so a
// failed conversion never leaves a partial .srt behind.
func (c *Converter) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return &WriteError{Path: src, Err: err}
	}

	data, err = decodeUTF8(data)
	if err != nil {
		return &EncodingError{Path: src, Err: err}
	}

	subs, err := astisub.ReadFromSSA(bytes.NewReader(data))
	if err != nil {
		return &ParseError{Path: src, Err: err}
	}
	if len(subs.Items) == 0 {
		return &ParseError{Path: src, Err: errors.New("no dialogue events")}
	}

	logger.Debugf("📝 Parsed %s: %d event(s)", filepath.Base(src), len(subs.Items))

	if err := writeSRT(subs, dst); err != nil {
		return &WriteError{Path: dst, Err: err}
	}

	return nil
}

// decodeUTF8 validates the assumed UTF-8 encoding and strips a leading BOM.
func decodeUTF8(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		return nil, errors.New("utf-16 byte order mark detected, expected utf-8")
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, errors.New("invalid utf-8")
	}
	return data, nil
}

// writeSRT serializes subs into dst via a temp file in the same directory so
// the final rename is atomic on the destination filesystem.
func writeSRT(subs *astisub.Subtitles, dst string) error {
	dir := filepath.Dir(dst)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := subs.WriteToSRT(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("serialize srt: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}
