package extractors

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"hash"
	"io"
	"unicode/utf16"

	"github.com/pkg/errors"
	"github.com/richardlehane/mscfb"
)

// ECMA-376 agile encryption wraps the real OOXML zip in a compound file with
// an EncryptionInfo descriptor and an EncryptedPackage stream. The block key
// constants select which derived key a ciphertext was encrypted under.
var (
	blockVerifierHashInput = []byte{0xfe, 0xa7, 0xd2, 0x76, 0x3b, 0x4b, 0x9e, 0x79}
	blockVerifierHashValue = []byte{0xd7, 0xaa, 0x0f, 0x6d, 0x30, 0x61, 0x34, 0x4e}
	blockEncryptedKeyValue = []byte{0x14, 0x6e, 0x0b, 0xe7, 0xab, 0xac, 0xd0, 0xd6}
)

const packageSegmentSize = 4096

var errWrongPassword = errors.New("password verification failed")

type agileDescriptor struct {
	KeyData struct {
		SaltValue     string `xml:"saltValue,attr"`
		BlockSize     int    `xml:"blockSize,attr"`
		KeyBits       int    `xml:"keyBits,attr"`
		HashAlgorithm string `xml:"hashAlgorithm,attr"`
	} `xml:"keyData"`
	KeyEncryptors struct {
		KeyEncryptor []struct {
			EncryptedKey struct {
				SpinCount                  int    `xml:"spinCount,attr"`
				SaltValue                  string `xml:"saltValue,attr"`
				BlockSize                  int    `xml:"blockSize,attr"`
				KeyBits                    int    `xml:"keyBits,attr"`
				HashAlgorithm              string `xml:"hashAlgorithm,attr"`
				EncryptedVerifierHashInput string `xml:"encryptedVerifierHashInput,attr"`
				EncryptedVerifierHashValue string `xml:"encryptedVerifierHashValue,attr"`
				EncryptedKeyValue          string `xml:"encryptedKeyValue,attr"`
			} `xml:"encryptedKey"`
		} `xml:"keyEncryptor"`
	} `xml:"keyEncryptors"`
}

// decryptOOXML decrypts an agile-encrypted OOXML container with the given
// password and returns the plain zip bytes. A wrong password fails the
// verifier comparison.
func decryptOOXML(content []byte, password string) ([]byte, error) {
	info, pkg, err := encryptionStreams(content)
	if err != nil {
		return nil, err
	}
	if len(info) < 8 {
		return nil, errors.New("EncryptionInfo stream too short")
	}
	major := binary.LittleEndian.Uint16(info[0:2])
	minor := binary.LittleEndian.Uint16(info[2:4])
	if major != 4 || minor != 4 {
		return nil, errors.Errorf("unsupported encryption version %d.%d", major, minor)
	}
	var descriptor agileDescriptor
	if err := xml.Unmarshal(info[8:], &descriptor); err != nil {
		return nil, errors.Wrap(err, "malformed encryption descriptor")
	}
	if len(descriptor.KeyEncryptors.KeyEncryptor) == 0 {
		return nil, errors.New("descriptor carries no password key encryptor")
	}
	encryptor := descriptor.KeyEncryptors.KeyEncryptor[0].EncryptedKey

	encSalt, err := base64.StdEncoding.DecodeString(encryptor.SaltValue)
	if err != nil {
		return nil, errors.Wrap(err, "malformed encryptor salt")
	}
	hasher, err := hasherFor(encryptor.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	keyBytes := encryptor.KeyBits / 8
	iv := normalizeBlock(encSalt, encryptor.BlockSize)
	passwordDigest := passwordHash(hasher, encSalt, password, encryptor.SpinCount)

	// The verifier pair proves the password before the content key is used.
	verifierInput, err := decryptAttribute(
		encryptor.EncryptedVerifierHashInput, hasher, passwordDigest,
		blockVerifierHashInput, keyBytes, iv)
	if err != nil {
		return nil, err
	}
	verifierValue, err := decryptAttribute(
		encryptor.EncryptedVerifierHashValue, hasher, passwordDigest,
		blockVerifierHashValue, keyBytes, iv)
	if err != nil {
		return nil, err
	}
	expected := hashOf(hasher, verifierInput)
	if !bytes.Equal(expected, verifierValue[:len(expected)]) {
		return nil, errWrongPassword
	}

	secret, err := decryptAttribute(encryptor.EncryptedKeyValue, hasher,
		passwordDigest, blockEncryptedKeyValue, keyBytes, iv)
	if err != nil {
		return nil, err
	}
	keyData := descriptor.KeyData
	if len(secret) < keyData.KeyBits/8 {
		return nil, errors.New("content key shorter than declared")
	}
	secret = secret[:keyData.KeyBits/8]
	keySalt, err := base64.StdEncoding.DecodeString(keyData.SaltValue)
	if err != nil {
		return nil, errors.Wrap(err, "malformed key data salt")
	}
	keyHasher, err := hasherFor(keyData.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	return decryptPackage(pkg, secret, keySalt, keyHasher, keyData.BlockSize)
}

// encryptionStreams pulls EncryptionInfo and EncryptedPackage out of the
// compound file.
func encryptionStreams(content []byte) (info, pkg []byte, err error) {
	reader, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return nil, nil, errors.Wrap(err, "container is not a compound file")
	}
	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot walk compound file")
		}
		switch entry.Name {
		case "EncryptionInfo":
			if info, err = io.ReadAll(entry); err != nil {
				return nil, nil, errors.Wrap(err, "cannot read EncryptionInfo")
			}
		case "EncryptedPackage":
			if pkg, err = io.ReadAll(entry); err != nil {
				return nil, nil, errors.Wrap(err, "cannot read EncryptedPackage")
			}
		}
	}
	if info == nil || pkg == nil {
		return nil, nil, errors.New("container is not an encrypted document")
	}
	return info, pkg, nil
}

// decryptPackage decrypts the content stream: an 8 byte plaintext size
// followed by 4096 byte segments, each under its own derived IV.
func decryptPackage(pkg, secret, salt []byte, hasher func() hash.Hash,
	blockSize int) ([]byte, error) {
	if len(pkg) < 8 {
		return nil, errors.New("EncryptedPackage stream too short")
	}
	size := binary.LittleEndian.Uint64(pkg[0:8])
	ciphertext := pkg[8:]
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, errors.Wrap(err, "invalid content key")
	}
	plain := make([]byte, 0, len(ciphertext))
	for segment := 0; len(ciphertext) > 0; segment++ {
		chunk := ciphertext
		if len(chunk) > packageSegmentSize {
			chunk = chunk[:packageSegmentSize]
		}
		ciphertext = ciphertext[len(chunk):]
		if len(chunk)%block.BlockSize() != 0 {
			return nil, errors.New("segment is not block aligned")
		}
		var counter [4]byte
		binary.LittleEndian.PutUint32(counter[:], uint32(segment))
		iv := normalizeBlock(hashOf(hasher, salt, counter[:]), blockSize)
		decrypted := make([]byte, len(chunk))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(decrypted, chunk)
		plain = append(plain, decrypted...)
	}
	if uint64(len(plain)) < size {
		return nil, errors.New("decrypted package shorter than declared")
	}
	return plain[:size], nil
}

// decryptAttribute base64-decodes one descriptor attribute and decrypts it
// under the key derived for its block constant.
func decryptAttribute(value string, hasher func() hash.Hash, passwordDigest,
	blockKey []byte, keyBytes int, iv []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Wrap(err, "malformed encrypted attribute")
	}
	key := normalizeBlock(hashOf(hasher, passwordDigest, blockKey), keyBytes)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "invalid derived key")
	}
	if len(ciphertext)%block.BlockSize() != 0 {
		return nil, errors.New("attribute is not block aligned")
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)
	return plain, nil
}

// passwordHash runs the spinCount iterated hash over the UTF-16LE password.
func passwordHash(hasher func() hash.Hash, salt []byte, password string,
	spinCount int) []byte {
	digest := hashOf(hasher, salt, utf16le(password))
	var counter [4]byte
	for i := 0; i < spinCount; i++ {
		binary.LittleEndian.PutUint32(counter[:], uint32(i))
		digest = hashOf(hasher, counter[:], digest)
	}
	return digest
}

func hashOf(hasher func() hash.Hash, parts ...[]byte) []byte {
	h := hasher()
	for _, part := range parts {
		h.Write(part)
	}
	return h.Sum(nil)
}

// normalizeBlock truncates or pads the value to exactly size bytes, padding
// with 0x36 as the format prescribes.
func normalizeBlock(value []byte, size int) []byte {
	if len(value) >= size {
		return value[:size]
	}
	padded := make([]byte, size)
	copy(padded, value)
	for i := len(value); i < size; i++ {
		padded[i] = 0x36
	}
	return padded
}

func hasherFor(name string) (func() hash.Hash, error) {
	switch name {
	case "SHA1", "SHA-1":
		return sha1.New, nil
	case "SHA256", "SHA-256":
		return sha256.New, nil
	case "SHA384", "SHA-384":
		return sha512.New384, nil
	case "SHA512", "SHA-512":
		return sha512.New, nil
	default:
		return nil, errors.Errorf("unsupported hash algorithm %q", name)
	}
}

func utf16le(value string) []byte {
	codes := utf16.Encode([]rune(value))
	encoded := make([]byte, len(codes)*2)
	for i, code := range codes {
		binary.LittleEndian.PutUint16(encoded[i*2:], code)
	}
	return encoded
}
