package fire

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"golang.org/x/net/html/charset"
)

var errNoRoot = errors.New("no root element")

// walkElements streams data through a strict decoder and calls visit for each
// start element. visit may consume the element with DecodeElement. Any syntax
// error anywhere in the document, including mismatched tags and undeclared
// entities, fails the whole walk.
func walkElements(data []byte, visit func(dec *xml.Decoder, start xml.StartElement) error) error {
	dec := xml.NewDecoder(bytes.NewReader(stripBOM(data)))
	dec.CharsetReader = charset.NewReaderLabel

	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if visit == nil {
			continue
		}
		if err := visit(dec, start); err != nil {
			return err
		}
	}
	if !sawRoot {
		return errNoRoot
	}
	return nil
}
