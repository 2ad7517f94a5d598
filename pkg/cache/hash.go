package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// recordsKey renders "records:v<schema>:<digest>". The digest covers the
// input fingerprint and every load option that changes the records.
func recordsKey(fingerprint string, opts RecordsKeyOpts) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t", fingerprint, opts.Language, opts.Anchors)
	return fmt.Sprintf("records:v%d:%x", recordsSchema, h.Sum(nil))
}

// entryPath splits the digest of key into a two-character shard directory
// and a file name.
func entryPath(key string) (shard, name string) {
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	return digest[:2], digest[2:] + ".json"
}
