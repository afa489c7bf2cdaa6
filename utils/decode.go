package utils

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText turns raw file bytes into a normalized string: a UTF-8 or UTF-16
// byte order mark selects the decoder, invalid UTF-8 becomes U+FFFD and CRLF
// line endings become LF.
func DecodeText(raw []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		decoded = raw
	}
	text := string(decoded)
	if strings.Contains(text, "\r") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return text
}
