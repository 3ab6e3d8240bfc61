package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFileExtensionWins(t *testing.T) {
	// A .docx detected as a generic zip must still classify as DOCX.
	assert.Equal(t, FlavorDocx, ClassifyFile("application/zip", "docx"))
	assert.Equal(t, FlavorDoc, ClassifyFile("application/octet-stream", "doc"))
	assert.Equal(t, FlavorEmail, ClassifyFile("text/plain", "eml"))
}

func TestClassifyFileByMime(t *testing.T) {
	assert.Equal(t, FlavorTextPlain, ClassifyFile("text/plain", "txt"))
	assert.Equal(t, FlavorTextHTML, ClassifyFile("text/html", ""))
	assert.Equal(t, FlavorCompressedFile, ClassifyFile("application/zip", ""))
	assert.Equal(t, FlavorCompressedFile, ClassifyFile("application/x-rar-compressed", ""))
	assert.Equal(t, FlavorPDF, ClassifyFile("application/pdf", ""))
	assert.Equal(t, FlavorImage, ClassifyFile("image/png", ""))
	assert.Equal(t, FlavorImage, ClassifyFile("image/x-obscure", ""))
	assert.Equal(t, FlavorOther, ClassifyFile("application/octet-stream", "bin"))
}

func TestClassifyData(t *testing.T) {
	assert.Equal(t, FlavorTextPlain, ClassifyData(DataTypeText))
	assert.Equal(t, FlavorTextPlain, ClassifyData(DataTypeOCR))
	assert.Equal(t, FlavorTextPlain, ClassifyData(DataTypeQRCode))
	assert.Equal(t, FlavorOther, ClassifyData(DataTypeURL))
	assert.Equal(t, FlavorOther, ClassifyData(DataTypeEmailHeader))
}

func TestDetectMime(t *testing.T) {
	assert.Equal(t, "text/plain", DetectMime([]byte("just some words")))
	zipMagic := []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, "application/zip", DetectMime(zipMagic))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "txt", FileExtension("notes.TXT"))
	assert.Equal(t, "gz", FileExtension("backup.tar.gz"))
	assert.Equal(t, "", FileExtension("README"))
}

func TestFlavorString(t *testing.T) {
	assert.Equal(t, "TEXT_PLAIN", FlavorTextPlain.String())
	assert.Equal(t, "OTHER", FlavorOther.String())
	assert.Equal(t, "COMPRESSED_FILE", FlavorCompressedFile.String())
}
