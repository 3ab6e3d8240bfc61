package extractors

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yeka/zip"

	"github.com/whisperd/filewhisperer/internal/core"
)

// paragraphsPerPage is the heuristic used to translate the page limit into a
// paragraph cap when walking the document body.
const paragraphsPerPage = 20

const convertTimeout = 120 * time.Second

// oleExtensions maps the embedded object's ProgID prefix to the extension of
// the fabricated child. Objects with an unlisted ProgID are skipped.
var oleExtensions = map[string]string{
	"AcroExch.Document": ".pdf",
	"Excel.Sheet":       ".xlsx",
	"PowerPoint.Show":   ".pptx",
	"Package":           "",
	"Word.Document.12":  ".docx",
	"Word.Document.8":   ".doc",
}

// WordExtractor digests DOC and DOCX payloads: the paragraph text up to the
// page limit, every word/media entry and every recognized OLE embedding.
// Legacy DOC input is converted to DOCX through an external document engine
// first. A payload that does not open as a ZIP is treated as an encrypted
// container and decrypted with the node's password candidates.
type WordExtractor struct {
	l core.Logger
}

// NewWordExtractor returns a WordExtractor logging through logger.
func NewWordExtractor(logger core.Logger) *WordExtractor {
	return &WordExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *WordExtractor) Name() string {
	return "word_extractor"
}

// Extract emits one TEXT data child with the joined paragraphs, one file
// child per media entry and one file child per mapped OLE embedding.
func (exr *WordExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	content := node.Bytes()
	if node.Flavor == core.FlavorDoc {
		converted, err := convertToDocx(content)
		if err != nil {
			return nil, errors.Wrap(err, "doc to docx conversion failed")
		}
		content = converted
	}
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		node.Meta.Booleans["is_encrypted"] = true
		content, err = exr.decrypt(content, node.Passwords)
		if err != nil {
			return nil, err
		}
		reader, err = zip.NewReader(bytes.NewReader(content), int64(len(content)))
		if err != nil {
			return nil, errors.Wrap(err, "decrypted document does not open as a zip")
		}
	}

	paragraphs, err := docxParagraphs(reader, node.WordMaxPages*paragraphsPerPage)
	if err != nil {
		return nil, err
	}
	nodes := []*core.Node{core.NewDataChild(
		node, core.DataTypeText, []byte(strings.Join(paragraphs, "\n")))}

	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, "word/media/") || file.FileInfo().IsDir() {
			continue
		}
		data, err := readZipEntry(file)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read media entry %s", file.Name)
		}
		nodes = append(nodes, core.NewFileChild(node, &core.File{
			Path:    file.Name,
			Name:    path.Base(file.Name),
			Content: data,
		}))
	}

	embedded := 0
	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, "word/embeddings/") || file.FileInfo().IsDir() {
			continue
		}
		data, err := readZipEntry(file)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read embedding %s", file.Name)
		}
		object, err := parseOLEObject(data)
		if err != nil {
			exr.l.Warnf("node[%d] skipping embedding %s: %v", node.ID, file.Name, err)
			continue
		}
		extension, recognized := oleObjectExtension(object.ProgID)
		if !recognized {
			exr.l.Debugf("node[%d] skipping embedding with ProgID %q", node.ID, object.ProgID)
			continue
		}
		nodes = append(nodes, core.NewFileChild(node,
			oleChildFile(embedded, extension, object.Data)))
		embedded++
	}
	exr.l.Infof("node[%d] word: %d paragraphs, %d children",
		node.ID, len(paragraphs), len(nodes))
	return nodes, nil
}

func (exr *WordExtractor) decrypt(content []byte, passwords []string) ([]byte, error) {
	lastErr := errors.New("document is encrypted and no passwords were supplied")
	for _, password := range passwords {
		decrypted, err := decryptOOXML(content, password)
		if err == nil {
			return decrypted, nil
		}
		lastErr = err
	}
	return nil, errors.Wrap(lastErr, "no supplied password decrypts the document")
}

// oleChildFile builds the payload of the index-th recognized embedding. Both
// path and name carry the full Output/OLE{i}{ext} string; downstream
// classification reads the extension off the name.
func oleChildFile(index int, extension string, data []byte) *core.File {
	name := fmt.Sprintf("Output/OLE%d%s", index, extension)
	return &core.File{Path: name, Name: name, Content: data}
}

// oleObjectExtension resolves the ProgID against the prefix table.
func oleObjectExtension(progID string) (string, bool) {
	for prefix, extension := range oleExtensions {
		if strings.HasPrefix(progID, prefix) {
			return extension, true
		}
	}
	return "", false
}

// docxParagraphs walks word/document.xml and collects paragraph text, up to
// maxParagraphs. Tabs and explicit breaks keep their place inside a
// paragraph.
func docxParagraphs(reader *zip.Reader, maxParagraphs int) ([]string, error) {
	var document *zip.File
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			document = file
			break
		}
	}
	if document == nil {
		return nil, errors.New("word/document.xml is missing")
	}
	rc, err := document.Open()
	if err != nil {
		return nil, errors.Wrap(err, "cannot open word/document.xml")
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var sb strings.Builder
	inParagraph, inText := false, false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return paragraphs, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "malformed word/document.xml")
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				sb.Reset()
			case "t":
				inText = true
			case "tab":
				if inParagraph {
					sb.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					sb.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, sb.String())
					inParagraph = false
					if len(paragraphs) >= maxParagraphs {
						return paragraphs, nil
					}
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
}

func readZipEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// convertToDocx shells out to the document engine to rewrite a legacy DOC
// payload as DOCX.
func convertToDocx(content []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "filewhisperer-doc-")
	if err != nil {
		return nil, errors.Wrap(err, "cannot create conversion directory")
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "document.doc")
	if err := os.WriteFile(source, content, 0600); err != nil {
		return nil, errors.Wrap(err, "cannot stage document for conversion")
	}
	ctx, cancel := context.WithTimeout(context.Background(), convertTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "soffice", "--headless",
		"--convert-to", "docx", "--outdir", dir, source)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.Wrapf(err, "document engine failed: %s",
			strings.TrimSpace(string(output)))
	}
	converted, err := os.ReadFile(filepath.Join(dir, "document.docx"))
	if err != nil {
		return nil, errors.Wrap(err, "document engine produced no output")
	}
	return converted, nil
}
