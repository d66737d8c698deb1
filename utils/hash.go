package utils

import "github.com/zeebo/xxh3"

func U64(s string) uint64 {
	return xxh3.HashString(s)
}

// Mix64 folds b into a. Order matters: Mix64(a, b) != Mix64(b, a).
func Mix64(a, b uint64) uint64 {
	h := xxh3.New()
	_, _ = h.Write(U64ToBytes(a))
	_, _ = h.Write(U64ToBytes(b))
	return h.Sum64()
}
