// SPDX-License-Identifier: Apache-2.0

package primitives

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/parmahealth/parma/pkg/batch"
)

// DefaultSalt is used when no salt is configured.
const DefaultSalt = "default_salt"

// saltSeparator delimits the salt from the value in the hashed input, so that
// ("sa", "lt:x") and ("sal", "t:x") do not produce the same digest.
const saltSeparator = '|'

// DigestLength is the length of the hex encoded digest.
const DigestLength = sha256.Size * 2

// Digest returns the lowercase hex encoded SHA-256 of the salt, a separator
// and the canonical string form of the value. Nil values are never hashed and
// return nil.
func Digest(value any, salt string) any {
	if value == nil {
		return nil
	}
	s := batch.Format(value)

	buf := make([]byte, 0, len(salt)+1+len(s))
	buf = append(buf, salt...)
	buf = append(buf, saltSeparator)
	buf = append(buf, s...)

	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// Mask and Pseudonymize are the same salted digest, named after the use they
// are put to.
var (
	Mask         = Digest
	Pseudonymize = Digest
)
