package admission

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	wordNS            = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	officeDocumentRel = "/officeDocument"
	defaultMainPart   = "word/document.xml"

	// maxPartBytes caps how much decompressed XML is read from one part.
	maxPartBytes = 64 << 20
)

var errPartTooLarge = errors.New("docx part exceeds the decompressed size limit")

type relationships struct {
	Items []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// ExtractDOCX returns the paragraph text of a Word document, one paragraph
// per line. Styling, tables and layout are discarded; tabs and breaks become
// whitespace.
func ExtractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open container: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	part := mainPartName(files)
	f, ok := files[part]
	if !ok {
		return "", fmt.Errorf("%s not found", part)
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", part, err)
	}
	defer rc.Close()

	return paragraphText(&capReader{r: rc, n: maxPartBytes})
}

// mainPartName resolves the main document part from the package
// relationships, falling back to the conventional location.
func mainPartName(files map[string]*zip.File) string {
	f, ok := files["_rels/.rels"]
	if !ok {
		return defaultMainPart
	}
	rc, err := f.Open()
	if err != nil {
		return defaultMainPart
	}
	defer rc.Close()

	var rels relationships
	if err := xml.NewDecoder(&capReader{r: rc, n: maxPartBytes}).Decode(&rels); err != nil {
		return defaultMainPart
	}
	for _, r := range rels.Items {
		if strings.HasSuffix(r.Type, officeDocumentRel) && r.Target != "" {
			return strings.TrimPrefix(path.Clean("/"+r.Target), "/")
		}
	}
	return defaultMainPart
}

func paragraphText(r io.Reader) (string, error) {
	var (
		sb     strings.Builder
		inText bool
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

// capReader fails once more than n bytes have been read.
type capReader struct {
	r io.Reader
	n int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.n < 0 {
		return 0, errPartTooLarge
	}
	if int64(len(p)) > c.n+1 {
		p = p[:c.n+1]
	}
	n, err := c.r.Read(p)
	c.n -= int64(n)
	if c.n < 0 {
		return n, errPartTooLarge
	}
	return n, err
}
