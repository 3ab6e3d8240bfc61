package core

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/saintfish/chardet"
)

// HashFile computes MD5, SHA1 and SHA256 of the file payload in a single
// pass over the bytes and records the byte length.
func HashFile(file *File) {
	h5 := md5.New()
	h1 := sha1.New()
	h256 := sha256.New()
	all := io.MultiWriter(h5, h1, h256)
	// Writes to hashes never fail.
	all.Write(file.Content)
	file.Size = int64(len(file.Content))
	file.MD5 = hex.EncodeToString(h5.Sum(nil))
	file.SHA1 = hex.EncodeToString(h1.Sum(nil))
	file.SHA256 = hex.EncodeToString(h256.Sum(nil))
}

// DetectEncoding runs charset detection over a data payload and publishes
// "encoding" and "encoding_confidence" (0-100) in meta. Undetectable or
// empty inputs record encoding NONE with a reason under encoding_detect_msg.
// File payloads are never probed; the cost does not pay off for binaries.
func DetectEncoding(meta *Meta, data []byte) {
	if len(data) == 0 {
		meta.Strings["encoding"] = "NONE"
		meta.Strings["encoding_detect_msg"] = "Empty data"
		return
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		meta.Strings["encoding"] = "NONE"
		meta.Strings["encoding_detect_msg"] = "Could not detect encoding"
		return
	}
	confidence := int64(result.Confidence)
	if confidence > 100 {
		confidence = 100
	}
	meta.Strings["encoding"] = result.Charset
	meta.Numbers["encoding_confidence"] = confidence
}
