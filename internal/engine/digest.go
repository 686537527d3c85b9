package engine

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"

	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

type digests struct {
	sha256  string
	md5     string
	blake2b string
	xxhash  string
}

func digest(data []byte) digests {
	s := sha256.Sum256(data)
	m := md5.Sum(data)
	b := blake2b.Sum256(data)
	return digests{
		sha256:  hex.EncodeToString(s[:]),
		md5:     hex.EncodeToString(m[:]),
		blake2b: hex.EncodeToString(b[:]),
		xxhash:  fastHash(data),
	}
}

// fastHash is the 16-digit hex xxhash64 of b, also used as the incremental
// cache fingerprint.
func fastHash(b []byte) string {
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hexDigits = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
