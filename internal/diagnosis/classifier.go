package diagnosis

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// #region errors
// ErrDecoding is returned when a payload cannot be decoded into image bytes.
// It is the only error the classifier produces.
var ErrDecoding = errors.New("invalid image encoding")

// #endregion errors

// #region decode
// DecodeImage strips an optional data-URL header ("data:image/png;base64,")
// and decodes standard base64. Only the segment between the first and second
// comma is kept, and characters outside the base64 alphabet (whitespace, line
// breaks) are dropped before decoding. An empty payload is zero image bytes.
func DecodeImage(payload string) ([]byte, error) {
	b64 := payload
	if _, after, found := strings.Cut(b64, ","); found {
		b64, _, _ = strings.Cut(after, ",")
	}
	data, err := base64.StdEncoding.DecodeString(strings.Map(base64Alphabet, b64))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return data, nil
}

func base64Alphabet(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/', r == '=':
		return r
	}
	return -1
}

// #endregion decode

// #region classify
const (
	confidenceFloor = 85.0
	confidenceSpan  = 1400 // hundredths of a percent
)

// Classification is the content-addressed class of an image.
type Classification struct {
	ClassID       int
	ConfidencePct float64 // [85.0, 98.99]
	Digest        string  // hex MD5 of the image bytes
}

// Classify maps image bytes to a class in [0, classes) and a confidence score.
// The result depends only on the bytes: h is the first 32 bits of the MD5
// digest, class = h mod classes, confidence = 85 + (h mod 1400)/100.
func Classify(image []byte, classes int) Classification {
	sum := md5.Sum(image)
	h := binary.BigEndian.Uint32(sum[:4])

	var classID int
	if classes > 0 {
		classID = int(h % uint32(classes))
	}
	return Classification{
		ClassID:       classID,
		ConfidencePct: confidenceFloor + float64(h%confidenceSpan)/100.0,
		Digest:        hex.EncodeToString(sum[:]),
	}
}

// #endregion classify
