package extractors

import (
	"bytes"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/whisperd/filewhisperer/internal/core"
)

// headerFields is the fixed order of the EMAIL_HEADER summary child.
var headerFields = []string{"From", "To", "Subject", "Date", "Message-ID"}

// EmailExtractor digests RFC 822 messages: a header summary child, one file
// child per attachment part, and one body child per text and HTML part.
// Inline parts are display content, not attachments, and fabricate no file
// children. Part charsets are converted by the MIME reader, falling back to
// UTF-8.
type EmailExtractor struct {
	l core.Logger
}

// NewEmailExtractor returns an EmailExtractor logging through logger.
func NewEmailExtractor(logger core.Logger) *EmailExtractor {
	return &EmailExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *EmailExtractor) Name() string {
	return "email_extractor"
}

// Extract emits, in order: the EMAIL_HEADER child when any summary field is
// present, the attachment file children, then one EMAIL_TEXT child per
// non-empty plain body part and one EMAIL_HTML child per non-empty HTML
// body part. It publishes attachment_count and body_parts_count.
func (exr *EmailExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	envelope, err := enmime.ReadEnvelope(bytes.NewReader(node.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse message")
	}

	var header strings.Builder
	for _, field := range headerFields {
		value := envelope.GetHeader(field)
		if value == "" {
			continue
		}
		header.WriteString(field)
		header.WriteString(": ")
		header.WriteString(value)
		header.WriteByte('\n')
	}
	var nodes []*core.Node
	if header.Len() > 0 {
		nodes = append(nodes, core.NewDataChild(
			node, core.DataTypeEmailHeader, []byte(header.String())))
	}

	for _, part := range envelope.Attachments {
		nodes = append(nodes, core.NewFileChild(node, &core.File{
			Path:    part.FileName,
			Name:    part.FileName,
			Content: part.Content,
		}))
	}

	bodyParts := int64(0)
	for _, part := range bodyPartsOfType(envelope, "text/plain") {
		nodes = append(nodes, core.NewDataChild(
			node, core.DataTypeEmailText, part.Content))
		bodyParts++
	}
	for _, part := range bodyPartsOfType(envelope, "text/html") {
		nodes = append(nodes, core.NewDataChild(
			node, core.DataTypeEmailHTML, part.Content))
		bodyParts++
	}
	node.Meta.Numbers["attachment_count"] = int64(len(envelope.Attachments))
	node.Meta.Numbers["body_parts_count"] = bodyParts
	exr.l.Infof("node[%d] email: %d attachments, %d body parts",
		node.ID, len(envelope.Attachments), bodyParts)
	return nodes, nil
}

// bodyPartsOfType walks the part tree and returns the non-empty body parts
// of the content type, in document order. Attachment-disposition parts are
// not bodies regardless of their type.
func bodyPartsOfType(envelope *enmime.Envelope, contentType string) []*enmime.Part {
	if envelope.Root == nil {
		return nil
	}
	return envelope.Root.DepthMatchAll(func(part *enmime.Part) bool {
		return part.ContentType == contentType &&
			part.Disposition != "attachment" && len(part.Content) > 0
	})
}
