package fileloader

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// FingerprintKey is the fixed 32-byte HighwayHash key used for document
// fingerprints, so the same bytes always give the same fingerprint.
var FingerprintKey = []byte("babsa document fingerprint key!!")

// Fingerprint calculates a HighwayHash of the file content.
func Fingerprint(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash, err := highwayhash.New(FingerprintKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}

	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// FingerprintBytes calculates the same hash as Fingerprint over data in memory.
func FingerprintBytes(data []byte) string {
	sum := highwayhash.Sum(data, FingerprintKey)
	return hex.EncodeToString(sum[:])
}
