package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPDF_PagesInOrder(t *testing.T) {
	data := buildPDF(t,
		"BT /F1 12 Tf 72 720 Td (How to reset) Tj 0 -14 Td (your password) Tj ET",
		"BT /F1 12 Tf 72 720 Td [(Con) 20 (tact) -400 (support)] TJ ET",
	)

	got, err := ExtractPDF(data)
	require.NoError(t, err)
	assert.Equal(t, "How to reset your password Contact support", Normalize(got))
}

func TestExtractPDF_NotAPDF(t *testing.T) {
	_, err := ExtractPDF([]byte("%PDF-1.4 this is only a header and some junk"))
	assert.Error(t, err)

	_, err = ExtractPDF([]byte("plain text pretending to be a pdf"))
	assert.Error(t, err)
}

func TestContentText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"show text", "BT (Hello) Tj ET", "Hello"},
		{"next line operators", "BT (one) Tj T* (two) Tj (three) ' 0 0 (four) \" ET", "one two three four"},
		{"kerning array", "BT [(W) 120 (orld) -300 (wide)] TJ ET", "World wide"},
		{"escapes", `BT (a\(b\)c\\d\101\t) Tj ET`, "a(b)c\\dA"},
		{"nested parens", "BT (f(x) = (y)) Tj ET", "f(x) = (y)"},
		{"line continuation", "BT (split \\\nword) Tj ET", "split word"},
		{"hex string", "BT <48656C6C6F> Tj <4> Tj ET", "Hello@"},
		{"utf16 hex string", "BT <FEFF00480069> Tj ET", "Hi"},
		{"winansi quotes", "BT (\x93quoted\x94) Tj ET", "“quoted”"},
		{"comments skipped", "% (ignored) Tj\nBT (kept) Tj ET", "kept"},
		{"marked content dict", "/Span <</ActualText (alt)>> BDC BT (real) Tj ET EMC", "real"},
		{"inline image skipped", "BI /W 2 /H 2 /BPC 8 ID \x00(x) Tj\x01 EI BT (after) Tj ET", "after"},
		{"no text operators", "0 0 m 100 100 l S", ""},
		{"dangling string", "BT (never shown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(contentText([]byte(tt.content))))
		})
	}
}
