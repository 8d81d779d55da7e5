// Package uuid generates random v4 ids, used to correlate the log lines
// of one connection.
package uuid

import (
	"crypto/rand"
	"encoding/hex"
)

type UUID [16]byte

func NewV4() UUID {
	var uuid UUID

	_, err := rand.Read(uuid[:])
	if err != nil {
		return uuid
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x40 // Version 4
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // Variant is 10

	return uuid
}

func (uuid UUID) String() string {
	var buf [36]byte

	hex.Encode(buf[:8], uuid[:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], uuid[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], uuid[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], uuid[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], uuid[10:])

	return string(buf[:])
}

func (uuid UUID) Version() byte {
	return uuid[6] >> 4
}
