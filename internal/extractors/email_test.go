package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/test"
)

func TestEmailExtractor(t *testing.T) {
	content := test.Email(
		"alice@example.test", "bob@example.test", "quarterly numbers",
		"see the attachment", "<p>see the <b>attachment</b></p>",
		test.Entry{Name: "numbers.csv", Content: []byte("a,b\n1,2\n")},
	)
	node := core.NewRoot(&core.File{Name: "mail.eml", Content: content}, nil, 0, 0)
	node.Meta = core.NewMeta()

	extractor := NewEmailExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 4)

	header := children[0]
	assert.Equal(t, core.DataTypeEmailHeader, header.Data.Type)
	headerText := string(header.Bytes())
	assert.Contains(t, headerText, "From: alice@example.test\n")
	assert.Contains(t, headerText, "To: bob@example.test\n")
	assert.Contains(t, headerText, "Subject: quarterly numbers\n")
	assert.Contains(t, headerText, "Message-ID: <fixture@test>\n")
	assert.NotContains(t, headerText, "Date:")

	attachment := children[1]
	require.NotNil(t, attachment.File)
	assert.Equal(t, "numbers.csv", attachment.File.Name)
	assert.Equal(t, []byte("a,b\n1,2\n"), attachment.File.Content)

	assert.Equal(t, core.DataTypeEmailText, children[2].Data.Type)
	assert.Contains(t, string(children[2].Bytes()), "see the attachment")
	assert.Equal(t, core.DataTypeEmailHTML, children[3].Data.Type)
	assert.Contains(t, string(children[3].Bytes()), "<b>attachment</b>")

	assert.Equal(t, int64(1), node.Meta.Numbers["attachment_count"])
	assert.Equal(t, int64(2), node.Meta.Numbers["body_parts_count"])
}

func TestEmailExtractorInlinePartIsNotAnAttachment(t *testing.T) {
	raw := []byte("From: dave@example.test\r\n" +
		"Subject: with logo\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/related; boundary=\"rel\"\r\n\r\n" +
		"--rel\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		"the logo is below\r\n" +
		"--rel\r\n" +
		"Content-Type: image/png\r\n" +
		"Content-Disposition: inline; filename=\"logo.png\"\r\n\r\n" +
		"fakepngbytes\r\n" +
		"--rel--\r\n")
	node := core.NewRoot(&core.File{Name: "mail.eml", Content: raw}, nil, 0, 0)
	node.Meta = core.NewMeta()

	extractor := NewEmailExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, core.DataTypeEmailHeader, children[0].Data.Type)
	assert.Equal(t, core.DataTypeEmailText, children[1].Data.Type)
	for _, child := range children {
		assert.Nil(t, child.File)
	}
	assert.Equal(t, int64(0), node.Meta.Numbers["attachment_count"])
}

func TestEmailExtractorOneChildPerBodyPart(t *testing.T) {
	raw := []byte("From: erin@example.test\r\n" +
		"Subject: two bodies\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"mix\"\r\n\r\n" +
		"--mix\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		"first body\r\n" +
		"--mix\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		"second body\r\n" +
		"--mix--\r\n")
	node := core.NewRoot(&core.File{Name: "mail.eml", Content: raw}, nil, 0, 0)
	node.Meta = core.NewMeta()

	extractor := NewEmailExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, core.DataTypeEmailText, children[1].Data.Type)
	assert.Contains(t, string(children[1].Bytes()), "first body")
	assert.Equal(t, core.DataTypeEmailText, children[2].Data.Type)
	assert.Contains(t, string(children[2].Bytes()), "second body")
	assert.Equal(t, int64(2), node.Meta.Numbers["body_parts_count"])
}

func TestEmailExtractorPlainMessage(t *testing.T) {
	raw := []byte("From: carol@example.test\r\n" +
		"Subject: ping\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"just a body\r\n")
	node := core.NewRoot(&core.File{Name: "mail.eml", Content: raw}, nil, 0, 0)
	node.Meta = core.NewMeta()

	extractor := NewEmailExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, core.DataTypeEmailHeader, children[0].Data.Type)
	assert.Equal(t, core.DataTypeEmailText, children[1].Data.Type)
	assert.Contains(t, string(children[1].Bytes()), "just a body")
	assert.Equal(t, int64(0), node.Meta.Numbers["attachment_count"])
	assert.Equal(t, int64(1), node.Meta.Numbers["body_parts_count"])
}
