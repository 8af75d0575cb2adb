package lib

import (
	"crypto/rand"
	"math/big"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderReference returns a short code in the format BS-XXXX that the
// customer and the shop can quote in the WhatsApp conversation. It is not stored.
func GenerateOrderReference() string {
	const length = 4

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			out[i] = referenceChars[i]
			continue
		}
		out[i] = referenceChars[n.Int64()]
	}

	return "BS-" + string(out)
}
