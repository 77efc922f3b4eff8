package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateOTP returns a random numeric code of the given length
func GenerateOTP(length int) string {
	code := ""
	for i := 0; i < length; i++ {
		b := make([]byte, 1)
		rand.Read(b)
		code += fmt.Sprintf("%d", int(b[0])%10)
	}
	return code
}
