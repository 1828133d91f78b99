// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io loads and stores raw binary images for the 8086 simulator:
// the instruction stream read before decoding, and the memory dump written
// after execution.
package io

import (
	"bytes"
	"io"
)

// Image is a raw binary image of at most Capacity bytes.
// A zero Capacity is unlimited.
type Image struct {
	Capacity int
	Data     []byte
}

var _ io.ReaderFrom = (*Image)(nil)
var _ io.WriterTo = (*Image)(nil)

// ReadFrom replaces the image with all of r. If r holds more than Capacity
// bytes the image is left empty and ErrImageSize is returned.
func (img *Image) ReadFrom(r io.Reader) (n int64, err error) {
	img.Data = nil

	if img.Capacity > 0 {
		// One byte over capacity is enough to reject the image.
		r = io.LimitReader(r, int64(img.Capacity)+1)
	}

	buf := &bytes.Buffer{}
	n, err = buf.ReadFrom(r)
	if err != nil {
		return
	}

	if img.Capacity > 0 && buf.Len() > img.Capacity {
		err = ErrImageSize
		return
	}

	img.Data = buf.Bytes()

	return
}

// WriteTo writes all of the image to w.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(img.Data)
	n = int64(written)

	return
}
