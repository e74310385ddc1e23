package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

type outputError struct {
	path string
	err  error
}

func (e *outputError) Error() string {
	return fmt.Sprintf("unable to open output file %s: %v", e.path, e.err)
}

func (e *outputError) Unwrap() error {
	return e.err
}

// output stages the result in a temporary file next to the destination, so
// that the destination is only ever replaced by a complete image.
type output struct {
	path string
	tmp  *os.File
}

func createOutput(path string) (*output, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, &outputError{path, errors.New("is a directory")}
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return nil, &outputError{path, err}
	}
	return &output{path: path, tmp: tmp}, nil
}

// commit writes data and moves it into place.
func (o *output) commit(data []byte) error {
	if _, err := o.tmp.Write(data); err != nil {
		o.abort()
		return fmt.Errorf("can't write to output file %v: %w", o.path, err)
	}
	if err := o.tmp.Close(); err != nil {
		o.abort()
		return fmt.Errorf("can't close output file %v: %w", o.path, err)
	}
	if err := os.Rename(o.tmp.Name(), o.path); err != nil {
		o.abort()
		return fmt.Errorf("can't rename output file into place: %w", err)
	}
	glog.Infof("wrote %d bytes to %v", len(data), o.path)
	return nil
}

// abort discards everything written so far. It is safe to call after commit.
func (o *output) abort() {
	o.tmp.Close()
	if err := os.Remove(o.tmp.Name()); err != nil && !os.IsNotExist(err) {
		glog.Warningf("can't remove %v: %v", o.tmp.Name(), err)
	}
}

func maybeWriteIntermediate(opts *options, data []byte, suffix string) error {
	prefix := opts.intermediatesPrefix
	if prefix == "" {
		return nil
	}

	filename := fmt.Sprintf("%s.%s", prefix, suffix)
	if err := os.WriteFile(filename, data, 0666); err != nil {
		return err
	}

	glog.Infof("wrote %d bytes to %v", len(data), filename)
	return nil
}
