package platforms

import (
	"encoding/json"
	"regexp"
	"strings"

	pkgerrors "trendradar/pkg/errors"
)

// maxRecursionDepth bounds the traversal recursive field discovery
// performs over an SSR state blob.
const maxRecursionDepth = 10

var (
	windowAssignRe = regexp.MustCompile(`window\.__INITIAL_STATE__\s*=\s*(\{.*?\});?\s*</script>`)
	renderDataRe   = regexp.MustCompile(`<script[^>]*id=["']RENDER_DATA["'][^>]*>([^<]+)</script>`)
)

// ExtractWindowBlob finds a `window.__INITIAL_STATE__ = {...};` assignment
// inside html, tolerant of a single literal `undefined` token by
// replacing it with `null` before parsing.
func ExtractWindowBlob(html string) (map[string]interface{}, error) {
	match := windowAssignRe.FindStringSubmatch(html)
	if match == nil {
		return nil, pkgerrors.New(pkgerrors.TypeParse, "no window.__INITIAL_STATE__ blob found")
	}
	return decodeBlob(match[1])
}

// ExtractRenderDataBlob finds a `<script id="RENDER_DATA">` tag
// carrying URL-encoded JSON.
func ExtractRenderDataBlob(html string) (map[string]interface{}, error) {
	match := renderDataRe.FindStringSubmatch(html)
	if match == nil {
		return nil, pkgerrors.New(pkgerrors.TypeParse, "no RENDER_DATA script blob found")
	}

	decoded, err := urlDecode(match[1])
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.TypeParse, "url-decode RENDER_DATA blob")
	}
	return decodeBlob(decoded)
}

func decodeBlob(raw string) (map[string]interface{}, error) {
	tolerant := strings.ReplaceAll(raw, ":undefined", ":null")
	tolerant = strings.ReplaceAll(tolerant, ": undefined", ": null")

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(tolerant), &out); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.TypeParse, "decode SSR state blob")
	}
	return out, nil
}

func urlDecode(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%':
			if i+2 >= len(s) {
				return "", pkgerrors.New(pkgerrors.TypeParse, "truncated percent-escape")
			}
			hi, lo := hexVal(s[i+1]), hexVal(s[i+2])
			if hi < 0 || lo < 0 {
				return "", pkgerrors.New(pkgerrors.TypeParse, "invalid percent-escape")
			}
			b.WriteByte(byte(hi<<4 | lo))
			i += 2
		case '+':
			b.WriteByte(' ')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// FindFieldRecursive does a bounded-depth traversal of a decoded SSR
// blob looking for any of fieldNames, returning the first matching
// value as a []interface{} (the common shape for content list arrays).
func FindFieldRecursive(node interface{}, fieldNames []string, depth int) ([]interface{}, bool) {
	if depth > maxRecursionDepth {
		return nil, false
	}

	switch v := node.(type) {
	case map[string]interface{}:
		for _, name := range fieldNames {
			if list, ok := v[name].([]interface{}); ok {
				return list, true
			}
		}
		for _, child := range v {
			if list, ok := FindFieldRecursive(child, fieldNames, depth+1); ok {
				return list, true
			}
		}
	case []interface{}:
		for _, child := range v {
			if list, ok := FindFieldRecursive(child, fieldNames, depth+1); ok {
				return list, true
			}
		}
	}

	return nil, false
}
