package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash is a stable digest of every build-affecting setting. Paths on the
// local machine are excluded so identical sites hash identically anywhere.
func (s *Site) Hash() string {
	if s == nil {
		return ""
	}
	data, err := json.Marshal(s)
	if err != nil {
		// Site only holds plain data; Marshal cannot fail on it.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
