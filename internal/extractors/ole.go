package extractors

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/richardlehane/mscfb"
)

// oleObject is one embedded object: the ProgID announced by its CompObj
// stream and the native payload bytes.
type oleObject struct {
	ProgID string
	Data   []byte
}

var cfbMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// parseOLEObject opens the compound file of an embedding and resolves its
// ProgID and payload. The payload stream depends on the object kind: plain
// packages ship \x01Ole10Native, PDF objects ship CONTENTS, OOXML objects
// ship Package, and legacy Word objects are the compound file itself.
func parseOLEObject(data []byte) (*oleObject, error) {
	if !bytes.HasPrefix(data, cfbMagic) {
		return nil, errors.New("embedding is not a compound file")
	}
	reader, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "cannot open compound file")
	}
	streams := map[string][]byte{}
	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot walk compound file")
		}
		switch entry.Name {
		case "\x01CompObj", "\x01Ole10Native", "CONTENTS", "Package", "WordDocument":
			content, err := io.ReadAll(entry)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot read stream %q", entry.Name)
			}
			streams[entry.Name] = content
		}
	}
	compObj, found := streams["\x01CompObj"]
	if !found {
		return nil, errors.New("embedding carries no CompObj stream")
	}
	progID, err := compObjProgID(compObj)
	if err != nil {
		return nil, err
	}

	object := &oleObject{ProgID: progID}
	switch {
	case streams["\x01Ole10Native"] != nil:
		native := streams["\x01Ole10Native"]
		if payload, err := ole10NativeData(native); err == nil {
			object.Data = payload
		} else {
			object.Data = native
		}
	case streams["CONTENTS"] != nil:
		object.Data = streams["CONTENTS"]
	case streams["Package"] != nil:
		object.Data = streams["Package"]
	default:
		// Legacy objects store their document directly in the compound file.
		object.Data = data
	}
	return object, nil
}

// compObjProgID pulls the ProgID out of a CompObj stream: a 28 byte header,
// the length-prefixed user type, the clipboard format, then the
// length-prefixed ProgID.
func compObjProgID(stream []byte) (string, error) {
	offset := 28
	var err error
	if _, offset, err = ansiString(stream, offset); err != nil {
		return "", errors.Wrap(err, "malformed CompObj user type")
	}
	if offset, err = skipClipboardFormat(stream, offset); err != nil {
		return "", errors.Wrap(err, "malformed CompObj clipboard format")
	}
	progID, _, err := ansiString(stream, offset)
	if err != nil {
		return "", errors.Wrap(err, "malformed CompObj ProgID")
	}
	return progID, nil
}

// ansiString reads a length-prefixed NUL-terminated ANSI string.
func ansiString(stream []byte, offset int) (string, int, error) {
	if offset+4 > len(stream) {
		return "", 0, errors.New("truncated length prefix")
	}
	length := int(binary.LittleEndian.Uint32(stream[offset:]))
	offset += 4
	if length < 0 || offset+length > len(stream) {
		return "", 0, errors.New("string length exceeds the stream")
	}
	value := strings.TrimRight(string(stream[offset:offset+length]), "\x00")
	return value, offset + length, nil
}

func skipClipboardFormat(stream []byte, offset int) (int, error) {
	if offset+4 > len(stream) {
		return 0, errors.New("truncated marker")
	}
	marker := binary.LittleEndian.Uint32(stream[offset:])
	offset += 4
	switch marker {
	case 0x00000000:
		return offset, nil
	case 0xfffffffe, 0xffffffff:
		// A standard clipboard format identifier follows.
		if offset+4 > len(stream) {
			return 0, errors.New("truncated format identifier")
		}
		return offset + 4, nil
	default:
		length := int(marker)
		if offset+length > len(stream) {
			return 0, errors.New("format name exceeds the stream")
		}
		return offset + length, nil
	}
}

// ole10NativeData unwraps the header of an \x01Ole10Native stream: total
// size, flags, the label and source path strings, a temporary path, then the
// length-prefixed payload.
func ole10NativeData(stream []byte) ([]byte, error) {
	if len(stream) < 6 {
		return nil, errors.New("stream too short")
	}
	offset := 6
	var err error
	if offset, err = skipCString(stream, offset); err != nil {
		return nil, err
	}
	if offset, err = skipCString(stream, offset); err != nil {
		return nil, err
	}
	offset += 2
	if offset+4 > len(stream) {
		return nil, errors.New("truncated temporary path length")
	}
	tempLen := int(binary.LittleEndian.Uint32(stream[offset:]))
	offset += 4 + tempLen
	if offset+4 > len(stream) {
		return nil, errors.New("truncated payload length")
	}
	size := int(binary.LittleEndian.Uint32(stream[offset:]))
	offset += 4
	if size < 0 || offset+size > len(stream) {
		return nil, errors.New("payload length exceeds the stream")
	}
	return stream[offset : offset+size], nil
}

func skipCString(stream []byte, offset int) (int, error) {
	idx := bytes.IndexByte(stream[offset:], 0)
	if idx < 0 {
		return 0, errors.New("unterminated string")
	}
	return offset + idx + 1, nil
}
