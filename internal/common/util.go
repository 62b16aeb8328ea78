package common

import "crypto/rand"

// GenerateRandByteArray returns size cryptographically random bytes.
// crypto/rand.Read cannot fail without crashing the program.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	rand.Read(b)
	return b
}

// WipeByteArray zeroes the buffer in place so key material does not
// linger after use.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
