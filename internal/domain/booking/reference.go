package booking

import (
	"crypto/rand"
	"math/big"
)

const (
	referencePrefix   = "TB-"
	referenceLength   = 8
	referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewReferenceCode produces a short display token like TB-9F3KQ0ZT. The
// characters come from crypto/rand, so uniqueness is probabilistic but good
// enough for a code that exists to be read over the phone; the booking ID is
// the real identity.
func NewReferenceCode() string {
	buf := make([]byte, 0, len(referencePrefix)+referenceLength)
	buf = append(buf, referencePrefix...)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < referenceLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a fixed character rather than panic mid-checkout.
			buf = append(buf, '0')
			continue
		}
		buf = append(buf, referenceAlphabet[n.Int64()])
	}
	return string(buf)
}
