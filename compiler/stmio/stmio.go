package stmio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Source yields raw program lines in order.
	Source interface {
		Next() ([]byte, bool)
		Err() error
		Close() error
	}

	// Sink accepts output lines in order.
	// Close commits what was written, Abort discards it.
	// Exactly one of them is expected to be called.
	Sink interface {
		WriteLine(s string) error
		Close() error
		Abort() error
	}

	scannerSource struct {
		s *bufio.Scanner
		c io.Closer
	}

	emptySource struct{}

	writerSink struct {
		w *bufio.Writer
	}

	// FileSink writes to a temporary file and renames it into place on Close.
	FileSink struct {
		name string
		f    *os.File
		w    *bufio.Writer

		done bool
	}
)

// FileMode is the permission of files committed by FileSink.
const FileMode os.FileMode = 0o644

// OpenFile opens a source file. A missing file is an empty program.
func OpenFile(name string) (Source, error) {
	f, err := os.Open(name)
	if os.IsNotExist(err) {
		tlog.Printw("source file does not exist", "name", name)

		return emptySource{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	return &scannerSource{
		s: bufio.NewScanner(f),
		c: f,
	}, nil
}

// Reader reads lines from r. Close closes r if it is an io.Closer.
func Reader(r io.Reader) Source {
	c, _ := r.(io.Closer)

	return &scannerSource{
		s: bufio.NewScanner(r),
		c: c,
	}
}

func (s *scannerSource) Next() ([]byte, bool) {
	if !s.s.Scan() {
		return nil, false
	}

	return s.s.Bytes(), true
}

func (s *scannerSource) Err() error { return s.s.Err() }

func (s *scannerSource) Close() error {
	if s.c == nil {
		return nil
	}

	return s.c.Close()
}

func (emptySource) Next() ([]byte, bool) { return nil, false }
func (emptySource) Err() error           { return nil }
func (emptySource) Close() error         { return nil }

// Writer writes lines to w. Close flushes but does not close w.
func Writer(w io.Writer) Sink {
	return writerSink{w: bufio.NewWriter(w)}
}

func (s writerSink) WriteLine(l string) error {
	_, err := s.w.WriteString(l)
	if err == nil {
		err = s.w.WriteByte('\n')
	}

	return err
}

func (s writerSink) Close() error { return s.w.Flush() }
func (s writerSink) Abort() error { return s.w.Flush() }

func CreateFile(name string) (*FileSink, error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return nil, errors.Wrap(err, "create temp file")
	}

	return &FileSink{
		name: name,
		f:    f,
		w:    bufio.NewWriter(f),
	}, nil
}

func (s *FileSink) WriteLine(l string) error {
	_, err := s.w.WriteString(l)
	if err == nil {
		err = s.w.WriteByte('\n')
	}

	return err
}

func (s *FileSink) Close() (err error) {
	if s.done {
		return nil
	}

	s.done = true

	defer func() {
		if err != nil {
			_ = os.Remove(s.f.Name())
		}
	}()

	err = s.w.Flush()
	if err != nil {
		_ = s.f.Close()
		return errors.Wrap(err, "flush")
	}

	// temp files are created 0600
	err = s.f.Chmod(FileMode)
	if err != nil {
		_ = s.f.Close()
		return errors.Wrap(err, "chmod")
	}

	err = s.f.Close()
	if err != nil {
		return errors.Wrap(err, "close")
	}

	err = os.Rename(s.f.Name(), s.name)
	if err != nil {
		return errors.Wrap(err, "rename")
	}

	return nil
}

func (s *FileSink) Abort() error {
	if s.done {
		return nil
	}

	s.done = true

	_ = s.f.Close()

	err := os.Remove(s.f.Name())
	if err != nil {
		return errors.Wrap(err, "remove temp file")
	}

	return nil
}

// TempName is the path written to until Close.
func (s *FileSink) TempName() string { return s.f.Name() }
