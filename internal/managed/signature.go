package managed

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

var hashes = map[string]func() hash.Hash{
	"md5":      md5.New,
	"sha1":     sha1.New,
	"sha224":   sha256.New224,
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-512": sha3.New512,
}

func hashFor(method string) (func() hash.Hash, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = DefaultSignatureMethod
	}
	h, ok := hashes[method]
	if !ok {
		return nil, ErrSignatureMethod.WithDetail("%q", method)
	}
	return h, nil
}

// AccessToken es el HMAC (hex) de clientID con clientSecret como key.
func AccessToken(method, clientID, clientSecret string) (string, error) {
	h, err := hashFor(method)
	if err != nil {
		return "", err
	}
	mac := hmac.New(h, []byte(clientSecret))
	mac.Write([]byte(clientID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// consoleKey es hex(sha256(clusterID + instanceID)).
func consoleKey(clusterID, instanceID string) string {
	sum := sha256.Sum256([]byte(clusterID + instanceID))
	return hex.EncodeToString(sum[:])
}
