package admission

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDOCX_Paragraphs(t *testing.T) {
	data := buildDOCX(t, docxParagraphs("Reset your password", "from the  account page."))

	got, err := ExtractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Reset your password\nfrom the  account page.\n", got)
}

func TestExtractDOCX_RunsTabsBreaksAndForeignElements(t *testing.T) {
	body := `<w:p>
  <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
  <w:r><w:rPr><w:b/></w:rPr><w:t>Ship</w:t></w:r><w:r><w:t>ping</w:t></w:r>
  <w:r><w:tab/><w:t>policy</w:t><w:br/><w:t>v2</w:t></w:r>
  <w:r><w:delText>removed</w:delText></w:r>
  <m:oMath><m:r><m:t>x=1</m:t></m:r></m:oMath>
</w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`

	got, err := ExtractDOCX(buildDOCX(t, fmt.Sprintf(testDocumentXML, body)))
	require.NoError(t, err)
	assert.Equal(t, "Shipping\tpolicy\nv2\ncell\n", got)
}

func TestExtractDOCX_MainPartFromRelationships(t *testing.T) {
	data := buildZip(t, map[string]string{
		"_rels/.rels":        `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="r" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="/word/document2.xml"/></Relationships>`,
		"word/document2.xml": docxParagraphs("relocated"),
	})

	got, err := ExtractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "relocated\n", got)
}

func TestExtractDOCX_Failures(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"not a zip", func(*testing.T) []byte { return []byte("PK? not really") }},
		{"zip without document part", func(t *testing.T) []byte {
			return buildZip(t, map[string]string{"word/styles.xml": "<styles/>"})
		}},
		{"broken xml", func(t *testing.T) []byte {
			return buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p>`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractDOCX(tt.data(t))
			assert.Error(t, err)
		})
	}
}

func TestCapReader(t *testing.T) {
	got, err := io.ReadAll(&capReader{r: strings.NewReader("12345"), n: 5})
	require.NoError(t, err)
	assert.Equal(t, "12345", string(got))

	_, err = io.ReadAll(&capReader{r: bytes.NewReader(make([]byte, 6)), n: 5})
	assert.ErrorIs(t, err, errPartTooLarge)
}
