package urlencoded

import (
	"bytes"

	"github.com/indigo-web/speed/http/status"
)

// halfbyte maps hex digits to their values. Everything else maps to 0xff.
var halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xff
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		table[c] = c - 'a' + 10
		table[c-'a'+'A'] = c - 'a' + 10
	}

	return table
}()

// Decode decodes percent-encoded data into the given buffer, but omits it if there's
// nothing to decode. `dst` can be src[:0] as well in order to decode "into itself".
func Decode(src, dst []byte) (decoded, buffer []byte, err error) {
	percent := bytes.IndexByte(src, '%')
	if percent == -1 {
		return src, dst, nil
	}

	head := len(dst)

	for percent != -1 {
		if percent >= len(src)-2 {
			return nil, dst, status.ErrURLDecoding
		}

		dst = append(dst, src[:percent]...)
		a, b := halfbyte[src[percent+1]], halfbyte[src[percent+2]]
		if a|b > 0x0f {
			return nil, dst, status.ErrURLDecoding
		}

		dst = append(dst, (a<<4)|b)
		src = src[percent+3:]
		percent = bytes.IndexByte(src, '%')
	}

	dst = append(dst, src...)

	return dst[head:], dst, nil
}

// ExtendedDecode is the same as Decode, but on top also decodes + as spaces. This is
// how query parameters and urlencoded forms are encoded.
func ExtendedDecode(src, dst []byte) (decoded, buffer []byte, err error) {
	if bytes.IndexByte(src, '+') == -1 {
		return Decode(src, dst)
	}

	head := len(dst)

	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '+':
			dst = append(dst, ' ')
		case '%':
			if len(src)-i < 3 {
				return nil, dst, status.ErrURLDecoding
			}

			a, b := halfbyte[src[i+1]], halfbyte[src[i+2]]
			if a|b > 0x0f {
				return nil, dst, status.ErrURLDecoding
			}

			dst = append(dst, (a<<4)|b)
			i += 2
		default:
			dst = append(dst, c)
		}
	}

	return dst[head:], dst, nil
}
