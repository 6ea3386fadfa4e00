// Package compression provides the codec and transform logic for HDR
// scan-line blocks: the Pxr24 numeric preprocessor in front of a deflate
// backend, and the fast canonical Huffman decoder.
package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Pool for zlib writers to reduce allocations. Each pooled item carries
// the writer together with its destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// zlibCompressTo deflates src into dst and returns the compressed size.
// dst must be large enough for the compressed stream; the Pxr24 codec
// sizes its output scratch for the deflate worst case.
func zlibCompressTo(dst, src []byte) (int, error) {
	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(src); err != nil {
		item.writer.Close()
		zlibWriterPool.Put(item)
		return 0, err
	}

	if err := item.writer.Close(); err != nil {
		zlibWriterPool.Put(item)
		return 0, err
	}

	n := item.buf.Len()
	if n > len(dst) {
		zlibWriterPool.Put(item)
		return 0, io.ErrShortBuffer
	}
	copy(dst, item.buf.Bytes())
	zlibWriterPool.Put(item)

	return n, nil
}

// zlibReaderPoolItem wraps a zlib reader for pooling.
type zlibReaderPoolItem struct {
	reader io.ReadCloser
	srcBuf *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{
			srcBuf: bytes.NewReader(nil),
		}
	},
}

// zlibDecompressTo inflates src into dst and returns the actual inflated
// size, which may be smaller than len(dst). If the stream holds more
// than len(dst) bytes, an error is returned.
func zlibDecompressTo(dst, src []byte) (int, error) {
	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	item.srcBuf.Reset(src)

	var err error
	if item.reader == nil {
		item.reader, err = zlib.NewReader(item.srcBuf)
	} else if resetter, ok := item.reader.(zlib.Resetter); ok {
		err = resetter.Reset(item.srcBuf, nil)
	} else {
		item.reader.Close()
		item.reader, err = zlib.NewReader(item.srcBuf)
	}
	if err != nil {
		item.reader = nil
		zlibReaderPool.Put(item)
		return 0, err
	}

	n, err := io.ReadFull(item.reader, dst)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		zlibReaderPool.Put(item)
		return 0, err
	}

	if n == len(dst) {
		// The output scratch is full; the stream must end here.
		var extra [1]byte
		if m, _ := item.reader.Read(extra[:]); m != 0 {
			zlibReaderPool.Put(item)
			return 0, io.ErrShortBuffer
		}
	}

	zlibReaderPool.Put(item)
	return n, nil
}
