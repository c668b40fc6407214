package mime

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	JSON           MIME = "application/json"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
)

// Complies returns whether the Content-Type value names the MIME, ignoring parameters
// and case. Empty value is considered compatible with any MIME
func Complies(mime MIME, with string) bool {
	with, _, _ = strings.Cut(with, ";")
	with = strings.TrimSpace(with)
	return len(with) == 0 || strcomp.EqualFold(with, mime)
}
