// Package test holds the in-memory fixture builders shared by the engine
// tests: small archives, documents, messages and barcode images crafted on
// the fly instead of checked-in binaries.
package test

import (
	"archive/tar"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/yeka/zip"
)

// Entry is one named member of a fixture archive.
type Entry struct {
	Name    string
	Content []byte
}

// Zip builds a plain zip archive with the entries in order.
func Zip(entries ...Entry) []byte {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := writer.Create(entry.Name)
		if err != nil {
			panic(err)
		}
		if _, err = w.Write(entry.Content); err != nil {
			panic(err)
		}
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// EncryptedZip builds a zip archive with every entry AES-encrypted under
// password.
func EncryptedZip(password string, entries ...Entry) []byte {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := writer.Encrypt(entry.Name, password, zip.AES256Encryption)
		if err != nil {
			panic(err)
		}
		if _, err = w.Write(entry.Content); err != nil {
			panic(err)
		}
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Tar builds a tar archive with the entries in order.
func Tar(entries ...Entry) []byte {
	var buf bytes.Buffer
	writer := tar.NewWriter(&buf)
	for _, entry := range entries {
		if err := writer.WriteHeader(&tar.Header{
			Name:     entry.Name,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(entry.Content)),
		}); err != nil {
			panic(err)
		}
		if _, err := writer.Write(entry.Content); err != nil {
			panic(err)
		}
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Gzip compresses content into a gzip stream carrying name in the header.
func Gzip(name string, content []byte) []byte {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	writer.Header.Name = name
	if _, err := writer.Write(content); err != nil {
		panic(err)
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Docx builds a minimal OOXML document with one body paragraph per element
// of paragraphs and the given word/media entries.
func Docx(paragraphs []string, media map[string][]byte) []byte {
	var body strings.Builder
	for _, paragraph := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>")
		body.WriteString(paragraph)
		body.WriteString("</w:t></w:r></w:p>")
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body.String() + `</w:body></w:document>`
	entries := []Entry{
		{Name: "[Content_Types].xml", Content: []byte(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
				`<Default Extension="xml" ContentType="application/xml"/></Types>`)},
		{Name: "word/document.xml", Content: []byte(document)},
	}
	for name, content := range media {
		entries = append(entries, Entry{Name: "word/media/" + name, Content: content})
	}
	return Zip(entries...)
}

// Email builds a multipart message with a plain body, an HTML body and the
// given attachments.
func Email(from, to, subject, textBody, htmlBody string, attachments ...Entry) []byte {
	const boundary = "fixture-boundary"
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Message-ID: <fixture@test>\r\n")
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)
	if textBody != "" {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
		fmt.Fprintf(&buf, "%s\r\n", textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
		fmt.Fprintf(&buf, "%s\r\n", htmlBody)
	}
	for _, attachment := range attachments {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: application/octet-stream\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachment.Name)
		buf.Write(attachment.Content)
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}

// QRCodePNG renders text as a QR code PNG.
func QRCodePNG(text string) []byte {
	matrix, err := qrcode.NewQRCodeWriter().Encode(
		text, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	if err != nil {
		panic(err)
	}
	return matrixPNG(matrix)
}

// BarcodePNG renders text as a Code 128 barcode PNG.
func BarcodePNG(text string) []byte {
	matrix, err := oned.NewCode128Writer().Encode(
		text, gozxing.BarcodeFormat_CODE_128, 200, 60, nil)
	if err != nil {
		panic(err)
	}
	return matrixPNG(matrix)
}

func matrixPNG(matrix *gozxing.BitMatrix) []byte {
	bounds := image.Rect(0, 0, int(matrix.GetWidth()), int(matrix.GetHeight()))
	img := image.NewGray(bounds)
	for y := 0; y < int(matrix.GetHeight()); y++ {
		for x := 0; x < int(matrix.GetWidth()); x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNG renders a blank image, for tests that only need valid image bytes.
func PNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
