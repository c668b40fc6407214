package urlencoded

import (
	"github.com/indigo-web/speed/http/status"
	"github.com/indigo-web/utils/uf"
)

// Parse walks over the key=value pairs separated by ampersands, decoding both keys and
// values. A key without a value (a flag) is passed with an empty value. Empty pairs are
// skipped, but an empty key isn't allowed.
//
// Decoded strings reference buff (or data, if nothing had to be decoded), so they must
// not be modified.
func Parse(data, buff []byte, cb func(key, value string)) (buffer []byte, err error) {
	for len(data) > 0 {
		var pair []byte
		pair, data = cut(data, '&')
		if len(pair) == 0 {
			continue
		}

		rawKey, rawValue := cut(pair, '=')
		if len(rawKey) == 0 || containsIllegalSymbol(pair) {
			return buff, status.ErrBadQuery
		}

		var key, value []byte
		if key, buff, err = ExtendedDecode(rawKey, buff); err != nil {
			return buff, err
		}

		if value, buff, err = ExtendedDecode(rawValue, buff); err != nil {
			return buff, err
		}

		cb(uf.B2S(key), uf.B2S(value))
	}

	return buff, nil
}

func cut(data []byte, sep byte) (before, after []byte) {
	for i, c := range data {
		if c == sep {
			return data[:i], data[i+1:]
		}
	}

	return data, nil
}

func containsIllegalSymbol(data []byte) bool {
	for _, c := range data {
		if illegalSymbol(c) {
			return true
		}
	}

	return false
}

// illegalSymbol excludes all non-printable characters and whitespaces
func illegalSymbol(c byte) bool {
	return c <= ' ' || c == 0x7f
}
