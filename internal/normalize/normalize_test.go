package normalize

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>1. The Employee shall </w:t></w:r><w:r><w:t>indemnify the Company.</w:t></w:r></w:p>
    <w:p><w:r><w:t>2. Payment</w:t><w:tab/><w:t>within 30 days.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestNormalize_Text(t *testing.T) {
	n := New()
	text, err := n.Normalize(context.Background(), "contract.txt", []byte("\xef\xbb\xbfThe parties agree."), "English")
	require.NoError(t, err)
	assert.Equal(t, "The parties agree.", text)
}

func TestNormalize_TextWindows1252(t *testing.T) {
	text, err := New().Normalize(context.Background(), "contract.txt", []byte("Caf\xe9 lease"), "")
	require.NoError(t, err)
	assert.Equal(t, "Café lease", text)
}

func TestNormalize_NFKC(t *testing.T) {
	text, err := New().NormalizeText(context.Background(), "Section １: ﬁnal payment", "English")
	require.NoError(t, err)
	assert.Equal(t, "Section 1: final payment", text)
}

func TestNormalize_DOCX(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   documentXML,
	})

	text, err := New().Normalize(context.Background(), "contract.docx", data, "English")
	require.NoError(t, err)
	assert.Equal(t, "1. The Employee shall indemnify the Company.\n2. Payment\twithin 30 days.", text)
}

func TestNormalize_DOCXMissingDocument(t *testing.T) {
	data := buildDOCX(t, map[string]string{"[Content_Types].xml": `<?xml version="1.0"?><Types/>`})

	_, err := New().Normalize(context.Background(), "contract.docx", data, "English")
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestNormalize_UnreadablePDF(t *testing.T) {
	_, err := New().Normalize(context.Background(), "contract.pdf", []byte("%PDF-1.4\nnot really a pdf"), "English")
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestNormalize_Errors(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	tests := []struct {
		name     string
		n        *Normalizer
		filename string
		data     []byte
		want     error
	}{
		{"image", New(), "scan.png", png, ErrUnsupportedFormat},
		{"unknown extension", New(), "contract.rtf", []byte("plain words"), ErrUnsupportedFormat},
		{"whitespace only", New(), "contract.txt", []byte(" \n\t "), ErrEmptyDocument},
		{"empty", New(), "contract.txt", nil, ErrEmptyDocument},
		{"too large", New(WithMaxBytes(10)), "contract.txt", []byte("eleven byte"), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.n.Normalize(context.Background(), tt.filename, tt.data, "English")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		data     []byte
		want     Format
	}{
		{"a.txt", []byte("hello"), FormatText},
		{"notes", []byte("hello"), FormatText},
		{"a.TXT", []byte("hello"), FormatText},
		{"upload.bin.pdf", []byte("junk"), FormatPDF},
		{"a.txt", []byte("%PDF-1.7\n"), FormatPDF},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_SkipsEnglish(t *testing.T) {
	called := false
	n := New(WithTranslator(TranslatorFunc(func(_ context.Context, text, _ string) (string, error) {
		called = true
		return text, nil
	})))

	for _, lang := range []string{"", "English", "en", " ENGLISH "} {
		_, err := n.NormalizeText(context.Background(), "Some clause text.", lang)
		require.NoError(t, err)
	}
	assert.False(t, called)
}

func TestTranslate_Chunks(t *testing.T) {
	var chunks []int
	n := New(WithTranslator(TranslatorFunc(func(_ context.Context, text, lang string) (string, error) {
		assert.Equal(t, "French", lang)
		chunks = append(chunks, len([]rune(text)))
		return "x", nil
	})))

	text, err := n.NormalizeText(context.Background(), strings.Repeat("é", 9000), "French")
	require.NoError(t, err)
	assert.Equal(t, []int{4000, 4000, 1000}, chunks)
	assert.Equal(t, "x x x", text)
}

func TestTranslate_FailurePassesThrough(t *testing.T) {
	n := New(WithTranslator(TranslatorFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("translation service down")
	})))

	text, err := n.NormalizeText(context.Background(), "Le salarié doit indemniser.", "French")
	require.NoError(t, err)
	assert.Equal(t, "Le salarié doit indemniser.", text)
}

func TestChunkRunes(t *testing.T) {
	assert.Equal(t, []string{"abc"}, chunkRunes("abc", 5))
	assert.Equal(t, []string{"ab", "cd", "e"}, chunkRunes("abcde", 2))
}

func TestNormalize_DOCXExpansionLimit(t *testing.T) {
	paragraph := "<w:p><w:r><w:t>The Supplier shall deliver the goods on time.</w:t></w:r></w:p>\n"
	bomb := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		strings.Repeat(paragraph, 5000) + `</w:body></w:document>`
	data := buildDOCX(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   bomb,
	})

	n := New(WithMaxBytes(4096))
	require.LessOrEqual(t, len(data), 4096, "fixture must pass the upload limit")

	_, err := n.Normalize(context.Background(), "bomb.docx", data, "English")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractDOCX_Limit(t *testing.T) {
	data := buildDOCX(t, map[string]string{"word/document.xml": documentXML})

	_, err := extractDOCX(context.Background(), data, 64)
	assert.ErrorIs(t, err, ErrTooLarge)

	text, err := extractDOCX(context.Background(), data, int64(len(documentXML)))
	require.NoError(t, err)
	assert.Contains(t, text, "indemnify the Company.")
}

func TestNormalizeText_StripsNUL(t *testing.T) {
	text, err := New().NormalizeText(context.Background(), "The Buyer\x00 shall pay.\x00", "English")
	require.NoError(t, err)
	assert.Equal(t, "The Buyer shall pay.", text)

	_, err = New().NormalizeText(context.Background(), "\x00 \x00\n", "English")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
