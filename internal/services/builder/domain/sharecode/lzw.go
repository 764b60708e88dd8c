package sharecode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	seedCodes = 256
	maxCode   = 1<<16 - 1

	// maxRecordSize bounds the decompressed record text.
	maxRecordSize = 1 << 20
)

var errRecordTooLarge = errors.New("decompressed record exceeds size limit")

// compress runs LZW over bytes. The dictionary stops growing once it
// holds maxCode+1 entries.
func compress(input []byte) []uint16 {
	if len(input) == 0 {
		return nil
	}
	dict := make(map[string]uint16, seedCodes)
	for i := 0; i < seedCodes; i++ {
		dict[string([]byte{byte(i)})] = uint16(i)
	}
	next := seedCodes
	var out []uint16
	w := []byte{input[0]}
	for _, c := range input[1:] {
		wc := append(append([]byte(nil), w...), c)
		if _, ok := dict[string(wc)]; ok {
			w = wc
			continue
		}
		out = append(out, dict[string(w)])
		if next <= maxCode {
			dict[string(wc)] = uint16(next)
			next++
		}
		w = []byte{c}
	}
	return append(out, dict[string(w)])
}

// decompress rebuilds the dictionary while reading codes. A code may only
// refer to an existing entry or, after the first code, to the entry about to
// be assigned. Output beyond limit bytes fails with errRecordTooLarge.
func decompress(codes []uint16, limit int) ([]byte, error) {
	dict := make([][]byte, seedCodes, seedCodes+len(codes))
	for i := range dict {
		dict[i] = []byte{byte(i)}
	}
	var out, prev []byte
	for i, code := range codes {
		var entry []byte
		switch {
		case int(code) < len(dict):
			entry = dict[code]
		case int(code) == len(dict) && prev != nil && len(dict) <= maxCode:
			entry = append(append([]byte(nil), prev...), prev[0])
		default:
			return nil, fmt.Errorf("code %d at position %d is outside the dictionary of %d entries", code, i, len(dict))
		}
		if len(out)+len(entry) > limit {
			return nil, fmt.Errorf("%w: more than %d bytes", errRecordTooLarge, limit)
		}
		out = append(out, entry...)
		if prev != nil && len(dict) <= maxCode {
			dict = append(dict, append(append([]byte(nil), prev...), entry[0]))
		}
		prev = entry
	}
	return out, nil
}

func pack(codes []uint16) []byte {
	out := make([]byte, 2*len(codes))
	for i, code := range codes {
		binary.BigEndian.PutUint16(out[2*i:], code)
	}
	return out
}

func unpack(data []byte) []uint16 {
	codes := make([]uint16, len(data)/2)
	for i := range codes {
		codes[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return codes
}
