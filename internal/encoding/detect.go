package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a backend export was written in.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO885915   Charset = "ISO-8859-15"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect guesses the charset of the first bytes of an export.
// BOMs win, then UTF-8 validity, then chardet; anything else is windows-1252,
// which is what office tools on the agency's workstations produce.
func Detect(buf []byte) Charset {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return CharsetUTF8
	case bytes.HasPrefix(buf, bomUTF16LE):
		return CharsetUTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return CharsetUTF16BE
	case utf8.Valid(buf):
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return CharsetWindows1252
	}

	switch result.Charset {
	case "UTF-8":
		return CharsetUTF8
	case "ISO-8859-15":
		return CharsetISO885915
	}

	return CharsetWindows1252
}

func decoder(cs Charset) encoding.Encoding {
	switch cs {
	case CharsetUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case CharsetUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case CharsetISO885915:
		return charmap.ISO8859_15
	case CharsetWindows1252:
		return charmap.Windows1252
	}

	return nil
}

// NewUTF8Reader returns a reader decoding r to UTF-8, with any UTF-8 BOM stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	utf8r, _, err := Decode(r)
	return utf8r, err
}

// Decode is NewUTF8Reader that also reports the detected charset.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)

	if cs == CharsetUTF8 {
		if bytes.HasPrefix(buf, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, cs, nil
	}

	return transform.NewReader(br, decoder(cs).NewDecoder()), cs, nil
}
