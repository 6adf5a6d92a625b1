// Package uniuri generates random document numbers such as stock numbers
// and repair order numbers.
package uniuri

import (
	"crypto/rand"
	"errors"
)

// CodeLen is the length of the random part of a document number.
const CodeLen = 8

// CodeChars are upper case letters and digits without the look-alikes 0, O, 1 and I.
var CodeChars = []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789") //nolint:gochecknoglobals

// ErrCharset is returned for a charset of less than two or more than 256 characters.
var ErrCharset = errors.New("uniuri: charset must hold 2 to 256 characters")

// Code returns prefix followed by CodeLen random characters, e.g. "RO-7KQ2MZ4D".
func Code(prefix string) string {
	code, err := NewLenChars(CodeLen, CodeChars)
	if err != nil {
		panic(err)
	}

	return prefix + code
}

// NewLenChars returns a random string of length characters taken from chars.
// Bytes that would bias the distribution are rejected and redrawn.
func NewLenChars(length int, chars []byte) (string, error) {
	if len(chars) < 2 || len(chars) > 256 {
		return "", ErrCharset
	}

	limit := 255 - (256 % len(chars))
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		for _, b := range buf {
			if int(b) > limit {
				continue
			}

			out = append(out, chars[int(b)%len(chars)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
