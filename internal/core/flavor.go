package core

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Flavor decides which analyzers and extractors apply to a node.
type Flavor int

const (
	// FlavorOther is the fallback for everything the classifier does not
	// recognize. No extractors are registered for it; the node is a leaf.
	FlavorOther Flavor = iota
	// FlavorTextPlain is plain text; the url extractor applies.
	FlavorTextPlain
	// FlavorTextHTML is an HTML document.
	FlavorTextHTML
	// FlavorImage is any raster image.
	FlavorImage
	// FlavorCompressedFile is an archive of any supported codec.
	FlavorCompressedFile
	// FlavorDoc is a legacy Word binary document.
	FlavorDoc
	// FlavorDocx is an OOXML Word document.
	FlavorDocx
	// FlavorPDF is a PDF document.
	FlavorPDF
	// FlavorEmail is an RFC 822 message.
	FlavorEmail
)

// String returns the canonical upper-case name of the flavor.
func (flavor Flavor) String() string {
	switch flavor {
	case FlavorOther:
		return "OTHER"
	case FlavorTextPlain:
		return "TEXT_PLAIN"
	case FlavorTextHTML:
		return "TEXT_HTML"
	case FlavorImage:
		return "IMAGE"
	case FlavorCompressedFile:
		return "COMPRESSED_FILE"
	case FlavorDoc:
		return "DOC"
	case FlavorDocx:
		return "DOCX"
	case FlavorPDF:
		return "PDF"
	case FlavorEmail:
		return "EMAIL"
	}
	log.Panicf("invalid Flavor value %d", flavor)
	return ""
}

var mimeFlavors = map[string]Flavor{
	"text/plain":                   FlavorTextPlain,
	"text/html":                    FlavorTextHTML,
	"application/zip":              FlavorCompressedFile,
	"application/x-rar-compressed": FlavorCompressedFile,
	"application/vnd.rar":          FlavorCompressedFile,
	"application/x-7z-compressed":  FlavorCompressedFile,
	"application/x-tar":            FlavorCompressedFile,
	"application/gzip":             FlavorCompressedFile,
	"application/x-gzip":           FlavorCompressedFile,
	"application/x-bzip2":          FlavorCompressedFile,
	"application/x-xz":             FlavorCompressedFile,
	"application/pdf":              FlavorPDF,
	"message/rfc822":               FlavorEmail,
}

var extensionFlavors = map[string]Flavor{
	"html": FlavorTextHTML,
	"htm":  FlavorTextHTML,
	"zip":  FlavorCompressedFile,
	"rar":  FlavorCompressedFile,
	"7z":   FlavorCompressedFile,
	"tar":  FlavorCompressedFile,
	"gz":   FlavorCompressedFile,
	"bz2":  FlavorCompressedFile,
	"xz":   FlavorCompressedFile,
	"doc":  FlavorDoc,
	"docx": FlavorDocx,
	"pdf":  FlavorPDF,
	"eml":  FlavorEmail,
}

var dataFlavors = map[string]Flavor{
	DataTypeText:   FlavorTextPlain,
	DataTypeOCR:    FlavorTextPlain,
	DataTypeQRCode: FlavorTextPlain,
}

// DetectMime sniffs the MIME type from the content bytes. It never consults
// the filename.
func DetectMime(content []byte) string {
	mime := mimetype.Detect(content)
	// mimetype reports "text/plain; charset=utf-8" style values; the tables
	// hold bare media types.
	value := mime.String()
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = value[:idx]
	}
	return value
}

// FileExtension derives the lowercased extension of name with the leading
// dot stripped.
func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ClassifyFile maps a detected MIME type and a filename extension to a
// Flavor. The extension table wins when it has an entry; classification
// never fails, unknown inputs become FlavorOther.
func ClassifyFile(mime, extension string) Flavor {
	if flavor, exists := extensionFlavors[extension]; exists {
		return flavor
	}
	if flavor, exists := mimeFlavors[mime]; exists {
		return flavor
	}
	if strings.HasPrefix(mime, "image/") {
		return FlavorImage
	}
	return FlavorOther
}

// ClassifyData maps a Data payload's symbolic type to a Flavor.
func ClassifyData(dataType string) Flavor {
	if flavor, exists := dataFlavors[dataType]; exists {
		return flavor
	}
	return FlavorOther
}
