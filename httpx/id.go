package httpx

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

var connSeq atomic.Uint64

// newConnID returns a short random hex ID for log correlation.
func newConnID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return "c" + strconv.FormatUint(connSeq.Add(1), 16)
}
