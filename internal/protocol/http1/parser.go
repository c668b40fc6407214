package http1

import (
	"bytes"
	"io"
	"strconv"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/method"
	"github.com/indigo-web/speed/http/proto"
	"github.com/indigo-web/speed/http/status"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

type parserState uint8

const (
	eHead parserState = iota + 1
	ePlainBody
	eChunkedBody
)

// Parser turns an accumulated byte buffer into a request. The caller appends freshly read
// bytes to the same buffer and calls Parse again while ErrIncomplete is returned, so the
// parser remembers how far it has got: the head is parsed once, and a chunked body is
// decoded incrementally.
//
// Strings of the returned request reference the passed data directly, so the data must
// not be modified after the request is returned.
type Parser struct {
	cfg        *config.Config
	state      parserState
	request    *http.Request
	bodyOffset int
	// fed is the number of bytes already passed to the chunked body parser
	fed     int
	body    []byte
	trailer bool
	chunked *chunkedbody.Parser
}

func NewParser(cfg *config.Config) *Parser {
	return &Parser{
		cfg:   cfg,
		state: eHead,
	}
}

// Parse is a one-shot version of Parser.Parse.
func Parse(data []byte, cfg *config.Config) (request *http.Request, n int, err error) {
	return NewParser(cfg).Parse(data)
}

// Parse returns either the request and the number of bytes it occupies in data, or an
// error. ErrIncomplete means more data is needed, any other error is terminal. After
// the request or a terminal error is returned, the parser is reset and ready for the
// next one.
func (p *Parser) Parse(data []byte) (request *http.Request, n int, err error) {
	switch p.state {
	case eHead:
		request, n, err = p.parseHead(data)
		if err != nil {
			if err != ErrIncomplete {
				p.Reset()
			}

			return nil, 0, err
		}

		return p.parseBody(data)
	case ePlainBody, eChunkedBody:
		return p.parseBody(data)
	default:
		panic("BUG: unexpected parser state")
	}
}

// Reset discards any progress made so far.
func (p *Parser) Reset() {
	p.state = eHead
	p.request = nil
	p.bodyOffset = 0
	p.fed = 0
	p.body = nil
	p.trailer = false
}

func (p *Parser) parseHead(data []byte) (*http.Request, int, error) {
	headersCfg := p.cfg.Headers
	offset := skipLeadingEmptyLines(data)

	line, next, ok := cutLine(data, offset)
	if !ok {
		if len(data) > headersCfg.MaxSpace {
			return nil, 0, status.ErrHeaderFieldsTooLarge
		}

		return nil, 0, ErrIncomplete
	}

	request := http.NewRequest()
	if err := parseRequestLine(request, line); err != nil {
		return nil, 0, err
	}

	var (
		headersNumber  int
		metContentLen  bool
		metTransferEnc bool
	)

	for {
		line, next, ok = cutLine(data, next)
		if next > headersCfg.MaxSpace || (!ok && len(data) > headersCfg.MaxSpace) {
			return nil, 0, status.ErrHeaderFieldsTooLarge
		}

		if !ok {
			return nil, 0, ErrIncomplete
		}

		if len(line) == 0 {
			break
		}

		if headersNumber++; headersNumber > headersCfg.MaxNumber {
			return nil, 0, status.ErrTooManyHeaders
		}

		key, value, err := splitHeader(line)
		if err != nil {
			return nil, 0, err
		}

		switch {
		case strcomp.EqualFold(key, "Content-Length"):
			length, err := parseContentLength(value)
			if err != nil || (metContentLen && length != request.ContentLength) {
				return nil, 0, ErrMalformed
			}

			metContentLen = true
			request.ContentLength = length
		case strcomp.EqualFold(key, "Transfer-Encoding"):
			if metTransferEnc {
				return nil, 0, ErrMalformed
			}

			metTransferEnc = true
			// no transfer codings other than chunked are supported
			if !strcomp.EqualFold(value, "chunked") {
				return nil, 0, ErrMalformed
			}

			request.Chunked = true
		}

		request.Headers.Set(key, value)
	}

	if request.Chunked {
		// Transfer-Encoding overrides the Content-Length (RFC 9112, 6.3)
		request.ContentLength = 0
	}

	if request.ContentLength > p.cfg.Body.MaxSize {
		return nil, 0, status.ErrBodyTooLarge
	}

	p.request = request
	p.bodyOffset = next
	p.trailer = request.Headers.Has("Trailer")

	return request, next, nil
}

func (p *Parser) parseBody(data []byte) (request *http.Request, n int, err error) {
	request = p.request

	if request.Chunked {
		p.state = eChunkedBody
		return p.parseChunkedBody(data)
	}

	p.state = ePlainBody
	end := p.bodyOffset + request.ContentLength
	if len(data) < end {
		return nil, 0, ErrIncomplete
	}

	if request.ContentLength > 0 {
		request.Body = data[p.bodyOffset:end]
	}

	p.Reset()

	return request, end, nil
}

func (p *Parser) parseChunkedBody(data []byte) (*http.Request, int, error) {
	if p.chunked == nil {
		p.chunked = chunkedbody.NewParser(chunkedbody.DefaultSettings())
	}

	if p.fed < p.bodyOffset {
		p.fed = p.bodyOffset
	}

	pending := data[p.fed:]
	for len(pending) > 0 {
		chunk, extra, err := p.chunked.Parse(pending, p.trailer)
		switch err {
		case nil:
		case io.EOF:
			p.body = append(p.body, chunk...)
			if len(p.body) > p.cfg.Body.MaxSize {
				p.resetChunked()
				return nil, 0, status.ErrBodyTooLarge
			}

			request := p.request
			request.Body = p.body
			request.ContentLength = len(p.body)
			n := len(data) - len(extra)
			p.resetChunked()

			return request, n, nil
		default:
			p.resetChunked()
			return nil, 0, ErrMalformed
		}

		p.body = append(p.body, chunk...)
		if len(p.body) > p.cfg.Body.MaxSize {
			p.resetChunked()
			return nil, 0, status.ErrBodyTooLarge
		}

		pending = extra
	}

	p.fed = len(data)

	return nil, 0, ErrIncomplete
}

// resetChunked drops the chunked parser, as it might be left in an arbitrary state.
func (p *Parser) resetChunked() {
	p.chunked = nil
	p.Reset()
}

func parseRequestLine(request *http.Request, line []byte) error {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return ErrMalformed
	}

	request.Method = method.Parse(uf.B2S(line[:sp]))
	if request.Method == method.Unknown {
		return ErrMalformed
	}

	line = line[sp+1:]
	sp = bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return ErrMalformed
	}

	path, version := line[:sp], line[sp+1:]
	if len(version) == 0 || bytes.IndexByte(version, ' ') != -1 {
		return ErrMalformed
	}

	request.Proto = proto.FromBytes(version)
	if request.Proto == proto.Unknown {
		return ErrUnsupportedVersion
	}

	request.Path = uf.B2S(path)

	return nil
}

func splitHeader(line []byte) (key, value string, err error) {
	colon := bytes.IndexByte(line, ':')
	if colon == -1 {
		return "", "", ErrInvalidHeader
	}

	// whitespace around the name, including obsolete line folding, isn't allowed
	// (RFC 9112, 5.1 and 5.2)
	k := line[:colon]
	if len(k) == 0 || len(trimSpaces(k)) != len(k) {
		return "", "", ErrInvalidHeader
	}

	return uf.B2S(k), uf.B2S(trimSpaces(line[colon+1:])), nil
}

func parseContentLength(value string) (int, error) {
	if len(value) == 0 || value[0] == '+' || value[0] == '-' {
		return 0, ErrMalformed
	}

	return strconv.Atoi(value)
}

// cutLine returns a line starting at offset without its terminator, which is either
// CRLF or a bare LF, and the offset of the following line.
func cutLine(data []byte, offset int) (line []byte, next int, ok bool) {
	lf := bytes.IndexByte(data[offset:], '\n')
	if lf == -1 {
		return nil, offset, false
	}

	line = data[offset : offset+lf]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	return line, offset + lf + 1, true
}

// skipLeadingEmptyLines skips empty lines preceding the request line (RFC 9112, 2.2)
func skipLeadingEmptyLines(data []byte) (offset int) {
	for offset < len(data) {
		switch data[offset] {
		case '\n':
			offset++
		case '\r':
			if offset+1 < len(data) && data[offset+1] == '\n' {
				offset += 2
				continue
			}

			return offset
		default:
			return offset
		}
	}

	return offset
}

func trimSpaces(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}

	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}

	return b
}
