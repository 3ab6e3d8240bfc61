package extractors

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"io"
	"path"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/nwaples/rardecode"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"github.com/yeka/zip"

	"github.com/whisperd/filewhisperer/internal/core"
)

type archiveFormat int

const (
	formatUnknown archiveFormat = iota
	formatZip
	formatRar
	format7z
	formatTar
	formatGzip
	formatBzip2
	formatXz
)

var extensionFormats = map[string]archiveFormat{
	"zip": formatZip,
	"rar": formatRar,
	"7z":  format7z,
	"tar": formatTar,
	"gz":  formatGzip,
	"bz2": formatBzip2,
	"xz":  formatXz,
}

var mimeFormats = map[string]archiveFormat{
	"application/zip":              formatZip,
	"application/x-rar-compressed": formatRar,
	"application/vnd.rar":          formatRar,
	"application/x-7z-compressed":  format7z,
	"application/x-tar":            formatTar,
	"application/gzip":             formatGzip,
	"application/x-gzip":           formatGzip,
	"application/x-bzip2":          formatBzip2,
	"application/x-xz":             formatXz,
}

// detectArchiveFormat mirrors the flavor classifier's precedence: a known
// extension wins over the sniffed MIME type.
func detectArchiveFormat(node *core.Node) archiveFormat {
	if node.File != nil {
		if format, known := extensionFormats[node.File.Extension]; known {
			return format
		}
	}
	return mimeFormats[core.DetectMime(node.Bytes())]
}

// archiveMember is one decoded entry: its path inside the archive and its
// uncompressed bytes.
type archiveMember struct {
	Path    string
	Content []byte
}

// ArchiveExtractor decodes the archive payload and emits one file child per
// member, in the archive's listing order. Decryption first tries without a
// password, then each candidate from the node's password list; the winning
// candidate is published under "correct_password". Any failure to decode is
// fatal and aborts the request.
type ArchiveExtractor struct {
	l core.Logger
}

// NewArchiveExtractor returns an ArchiveExtractor logging through logger.
func NewArchiveExtractor(logger core.Logger) *ArchiveExtractor {
	return &ArchiveExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *ArchiveExtractor) Name() string {
	return "archive_extractor"
}

// Extract decodes every member of the archive into a file child.
func (exr *ArchiveExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	var (
		members  []archiveMember
		password string
		err      error
	)
	switch format := detectArchiveFormat(node); format {
	case formatZip:
		members, password, err = extractZip(node.Bytes(), node.Passwords)
	case format7z:
		members, password, err = extract7z(node.Bytes(), node.Passwords)
	case formatRar:
		members, password, err = extractRar(node.Bytes(), node.Passwords)
	case formatTar:
		members, err = extractTar(node.Bytes())
	case formatGzip, formatBzip2, formatXz:
		members, err = extractStream(format, node.Bytes(), stemName(node))
	default:
		err = errors.New("unrecognized archive format")
	}
	if err != nil {
		return nil, core.Fatal(err)
	}
	if password != "" {
		node.Meta.Strings["correct_password"] = password
	}
	exr.l.Infof("node[%d] archive: %d members extracted", node.ID, len(members))
	nodes := make([]*core.Node, 0, len(members))
	for _, member := range members {
		nodes = append(nodes, core.NewFileChild(node, &core.File{
			Path:    member.Path,
			Name:    path.Base(member.Path),
			Content: member.Content,
		}))
	}
	return nodes, nil
}

// stemName derives the decompressed member name of a single-entry stream by
// dropping the compression extension of the carrying file.
func stemName(node *core.Node) string {
	if node.File == nil || node.File.Name == "" {
		return ""
	}
	name := node.File.Name
	if ext := path.Ext(name); ext != "" && name != ext {
		return name[:len(name)-len(ext)]
	}
	return name
}

func extractZip(content []byte, passwords []string) ([]archiveMember, string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, "", errors.Wrap(err, "cannot open zip archive")
	}
	encrypted := false
	for _, file := range reader.File {
		if file.IsEncrypted() {
			encrypted = true
			break
		}
	}
	if !encrypted {
		members, err := readZipMembers(reader, "")
		return members, "", err
	}
	lastErr := errors.New("archive is encrypted and no passwords were supplied")
	for _, password := range passwords {
		members, err := readZipMembers(reader, password)
		if err == nil {
			return members, password, nil
		}
		lastErr = err
	}
	return nil, "", errors.Wrap(lastErr, "no supplied password decrypts the archive")
}

func readZipMembers(reader *zip.Reader, password string) ([]archiveMember, error) {
	var members []archiveMember
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if file.IsEncrypted() {
			file.SetPassword(password)
		}
		rc, err := file.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open member %s", file.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			// A checksum or stream failure on an encrypted member is the
			// wrong-password signal for this codec.
			return nil, errors.Wrapf(err, "cannot read member %s", file.Name)
		}
		members = append(members, archiveMember{Path: file.Name, Content: data})
	}
	return members, nil
}

func extract7z(content []byte, passwords []string) ([]archiveMember, string, error) {
	lastErr := errors.New("empty archive payload")
	for _, password := range append([]string{""}, passwords...) {
		reader, err := sevenzip.NewReaderWithPassword(
			bytes.NewReader(content), int64(len(content)), password)
		if err != nil {
			lastErr = err
			continue
		}
		members, err := read7zMembers(reader)
		if err != nil {
			lastErr = err
			continue
		}
		return members, password, nil
	}
	return nil, "", errors.Wrap(lastErr, "cannot decode 7z archive with the supplied passwords")
}

func read7zMembers(reader *sevenzip.Reader) ([]archiveMember, error) {
	var members []archiveMember
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open member %s", file.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read member %s", file.Name)
		}
		members = append(members, archiveMember{Path: file.Name, Content: data})
	}
	return members, nil
}

func extractRar(content []byte, passwords []string) ([]archiveMember, string, error) {
	lastErr := errors.New("empty archive payload")
	for _, password := range append([]string{""}, passwords...) {
		reader, err := rardecode.NewReader(bytes.NewReader(content), password)
		if err != nil {
			lastErr = err
			continue
		}
		members, err := readRarMembers(reader)
		if err != nil {
			lastErr = err
			continue
		}
		return members, password, nil
	}
	return nil, "", errors.Wrap(lastErr, "cannot decode rar archive with the supplied passwords")
}

func readRarMembers(reader *rardecode.Reader) ([]archiveMember, error) {
	var members []archiveMember
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return members, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot advance to the next member")
		}
		if header.IsDir {
			continue
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read member %s", header.Name)
		}
		members = append(members, archiveMember{Path: header.Name, Content: data})
	}
}

func extractTar(content []byte) ([]archiveMember, error) {
	reader := tar.NewReader(bytes.NewReader(content))
	var members []archiveMember
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return members, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot advance to the next member")
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read member %s", header.Name)
		}
		members = append(members, archiveMember{Path: header.Name, Content: data})
	}
}

// extractStream handles the single-member compression formats. The member
// name comes from the stream header when the codec carries one, otherwise
// from the carrying file's name with the compression extension dropped.
func extractStream(format archiveFormat, content []byte, fallbackName string) (
	[]archiveMember, error) {
	var (
		decoder io.Reader
		name    = fallbackName
		err     error
	)
	switch format {
	case formatGzip:
		gz, gzErr := gzip.NewReader(bytes.NewReader(content))
		if gzErr != nil {
			return nil, errors.Wrap(gzErr, "cannot open gzip stream")
		}
		if gz.Header.Name != "" {
			name = gz.Header.Name
		}
		decoder = gz
	case formatBzip2:
		decoder = bzip2.NewReader(bytes.NewReader(content))
	case formatXz:
		decoder, err = xz.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, errors.Wrap(err, "cannot open xz stream")
		}
	}
	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decompress stream")
	}
	return []archiveMember{{Path: name, Content: data}}, nil
}
