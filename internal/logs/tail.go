package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultPollInterval is how often Follow checks for appended lines.
const DefaultPollInterval = 250 * time.Millisecond

const maxLineBytes = 1024 * 1024

// Last returns up to limit trailing lines of path and the offset of the end
// of the file. A missing file yields no lines and offset 0.
func Last(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	} else if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}

	var ring []string
	if limit > 0 {
		ring = make([]string, 0, limit)
	}
	offset, err := scanLines(file, func(line string) {
		if limit <= 0 {
			return
		}
		if len(ring) == limit {
			ring = append(ring[1:], line)
			return
		}
		ring = append(ring, line)
	})
	if err != nil {
		return nil, 0, err
	}
	return ring, offset, nil
}

// Follow calls emit for every complete line written to path after offset,
// polling at interval until ctx is done. A truncated file is reread from
// the start. It returns ctx.Err() on cancellation.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	read, err := scanLines(file, emit)
	if err != nil {
		return offset, err
	}
	return offset + read, nil
}

// scanLines emits complete lines and returns the number of bytes consumed.
// A trailing partial line is left for the next read.
func scanLines(r io.Reader, emit func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			consumed += int64(len(line))
			if len(line) > maxLineBytes {
				line = line[:maxLineBytes]
			}
			emit(trimNewline(line))
			continue
		}
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		return consumed, fmt.Errorf("read log file: %w", err)
	}
}

func trimNewline(line string) string {
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
