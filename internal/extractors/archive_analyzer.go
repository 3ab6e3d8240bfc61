package extractors

import (
	"archive/tar"
	"bytes"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
	"github.com/pkg/errors"
	"github.com/yeka/zip"

	"github.com/whisperd/filewhisperer/internal/core"
)

// ArchiveAnalyzer publishes the archive's catalog facts into the node's
// metadata without extracting anything: entry counts, uncompressed and
// packed sizes, volume layout and encryption. Only the fields the codec
// reports without error are published; a failure is recorded and the
// extractor still runs afterwards.
type ArchiveAnalyzer struct {
	l core.Logger
}

// NewArchiveAnalyzer returns an ArchiveAnalyzer logging through logger.
func NewArchiveAnalyzer(logger core.Logger) *ArchiveAnalyzer {
	return &ArchiveAnalyzer{l: logger}
}

// Name identifies the analyzer in timing and error meta keys.
func (azr *ArchiveAnalyzer) Name() string {
	return "archive_analyzer"
}

// Analyze inspects the archive catalog and fills the node's metadata.
func (azr *ArchiveAnalyzer) Analyze(node *core.Node) error {
	numbers := node.Meta.Numbers
	booleans := node.Meta.Booleans
	// Payloads arrive as one in-memory blob, never as a volume set.
	numbers["volumes_count"] = 1
	booleans["is_multi_volume"] = false

	content := node.Bytes()
	switch format := detectArchiveFormat(node); format {
	case formatZip:
		return azr.analyzeZip(content, numbers, booleans)
	case format7z:
		return azr.analyze7z(content, node.Passwords, numbers)
	case formatRar:
		return azr.analyzeRar(content, node.Passwords, numbers)
	case formatTar:
		return azr.analyzeTar(content, numbers)
	case formatGzip, formatBzip2, formatXz:
		numbers["items_count"] = 1
		numbers["files_count"] = 1
		numbers["folders_count"] = 0
		numbers["pack_size"] = int64(len(content))
		return nil
	default:
		return errors.New("unrecognized archive format")
	}
}

func (azr *ArchiveAnalyzer) analyzeZip(content []byte,
	numbers map[string]int64, booleans map[string]bool) error {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return errors.Wrap(err, "cannot read zip catalog")
	}
	var files, folders, size, packSize int64
	encrypted := false
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			folders++
			continue
		}
		files++
		size += int64(file.UncompressedSize64)
		packSize += int64(file.CompressedSize64)
		if file.IsEncrypted() {
			encrypted = true
		}
	}
	numbers["items_count"] = files + folders
	numbers["files_count"] = files
	numbers["folders_count"] = folders
	numbers["size"] = size
	numbers["pack_size"] = packSize
	booleans["is_encrypted"] = encrypted
	return nil
}

func (azr *ArchiveAnalyzer) analyze7z(content []byte, passwords []string,
	numbers map[string]int64) error {
	var reader *sevenzip.Reader
	lastErr := errors.New("empty archive payload")
	for _, password := range append([]string{""}, passwords...) {
		var err error
		reader, err = sevenzip.NewReaderWithPassword(
			bytes.NewReader(content), int64(len(content)), password)
		if err == nil {
			break
		}
		reader = nil
		lastErr = err
	}
	if reader == nil {
		return errors.Wrap(lastErr, "cannot read 7z catalog")
	}
	var files, folders, size int64
	for _, file := range reader.File {
		info := file.FileInfo()
		if info.IsDir() {
			folders++
			continue
		}
		files++
		size += info.Size()
	}
	numbers["items_count"] = files + folders
	numbers["files_count"] = files
	numbers["folders_count"] = folders
	numbers["size"] = size
	numbers["pack_size"] = int64(len(content))
	return nil
}

func (azr *ArchiveAnalyzer) analyzeRar(content []byte, passwords []string,
	numbers map[string]int64) error {
	lastErr := errors.New("empty archive payload")
	for _, password := range append([]string{""}, passwords...) {
		reader, err := rardecode.NewReader(bytes.NewReader(content), password)
		if err != nil {
			lastErr = err
			continue
		}
		var files, folders, size int64
		for {
			header, err := reader.Next()
			if err == io.EOF {
				numbers["items_count"] = files + folders
				numbers["files_count"] = files
				numbers["folders_count"] = folders
				numbers["size"] = size
				numbers["pack_size"] = int64(len(content))
				return nil
			}
			if err != nil {
				lastErr = err
				break
			}
			if header.IsDir {
				folders++
				continue
			}
			files++
			if header.UnPackedSize > 0 {
				size += header.UnPackedSize
			}
		}
	}
	return errors.Wrap(lastErr, "cannot read rar catalog")
}

func (azr *ArchiveAnalyzer) analyzeTar(content []byte,
	numbers map[string]int64) error {
	reader := tar.NewReader(bytes.NewReader(content))
	var files, folders, size int64
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "cannot read tar catalog")
		}
		switch header.Typeflag {
		case tar.TypeDir:
			folders++
		case tar.TypeReg:
			files++
			size += header.Size
		}
	}
	numbers["items_count"] = files + folders
	numbers["files_count"] = files
	numbers["folders_count"] = folders
	numbers["size"] = size
	numbers["pack_size"] = int64(len(content))
	return nil
}
