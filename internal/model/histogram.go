package model

import (
	"bytes"
	"encoding/json"
)

// MagCount is one magnitude histogram bucket, keyed "M<floor(mag)>".
type MagCount struct {
	Key   string
	Count int
}

// MagHistogram preserves bucket order when marshalled. A plain map would
// serialize with lexically sorted keys, which breaks the ascending-numeric
// order the consumer expects (and would sort "M-1" after "M9").
type MagHistogram []MagCount

func (h MagHistogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(b.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Lookup returns the count for a bucket key, 0 when absent.
func (h MagHistogram) Lookup(key string) int {
	for _, b := range h {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Total sums all bucket counts.
func (h MagHistogram) Total() int {
	n := 0
	for _, b := range h {
		n += b.Count
	}
	return n
}
