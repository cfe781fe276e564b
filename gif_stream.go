package main

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/gif"
	"io"
)

const (
	GIF_HEADER_SIZE = 13   // signature plus logical screen descriptor
	GIF_TRAILER     = 0x3B // end of stream marker
)

var errGIFLayout = errors.New("gif: unexpected encoder output")

// gifStream writes an animated GIF frame by frame so a recording only
// holds the frame being encoded. image/gif encodes whole animations, so
// every frame goes through gif.EncodeAll on its own and the image block
// is cut out of the single-frame stream. Frames carry local colour tables
// and all must share the size of the first one.
type gifStream struct {
	w       *bufio.Writer
	scratch bytes.Buffer
	frames  int
}

func newGIFStream(w io.Writer) *gifStream {
	return &gifStream{w: bufio.NewWriter(w)}
}

// Frames is the number of frames written so far.
func (s *gifStream) Frames() int {
	return s.frames
}

// WriteFrame appends img shown for delay hundredths of a second.
func (s *gifStream) WriteFrame(img *image.Paletted, delay int) error {
	s.scratch.Reset()
	single := &gif.GIF{
		Image: []*image.Paletted{img},
		Delay: []int{delay},
	}
	if err := gif.EncodeAll(&s.scratch, single); err != nil {
		return err
	}
	b := s.scratch.Bytes()
	if len(b) <= GIF_HEADER_SIZE || b[len(b)-1] != GIF_TRAILER {
		return errGIFLayout
	}

	if s.frames == 0 {
		if _, err := s.w.Write(b[:GIF_HEADER_SIZE]); err != nil {
			return err
		}
		if err := s.writeLoopExtension(); err != nil {
			return err
		}
	}
	if _, err := s.w.Write(b[GIF_HEADER_SIZE : len(b)-1]); err != nil {
		return err
	}
	s.frames++
	return nil
}

// writeLoopExtension emits the NETSCAPE2.0 block asking viewers to loop
// forever.
func (s *gifStream) writeLoopExtension() error {
	ext := []byte{0x21, 0xFF, 0x0B}
	ext = append(ext, "NETSCAPE2.0"...)
	ext = append(ext, 0x03, 0x01, 0x00, 0x00, 0x00)
	_, err := s.w.Write(ext)
	return err
}

// Close writes the trailer and flushes. The underlying writer stays open.
func (s *gifStream) Close() error {
	if s.frames == 0 {
		return errors.New("gif: no frames written")
	}
	if err := s.w.WriteByte(GIF_TRAILER); err != nil {
		return err
	}
	return s.w.Flush()
}
