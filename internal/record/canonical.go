package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/text/unicode/norm"
)

// inspect renders non-text arguments. Output must be deterministic, so map
// keys are sorted and pointer addresses are never printed.
var inspect = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// RenderArg renders one argument for the canonical form: strings as-is,
// errors and Stringers through their own methods, everything else through
// the structural pretty-printer.
func RenderArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case error:
		if isNilPointer(arg) {
			return "<nil>"
		}
		return v.Error()
	case fmt.Stringer:
		if isNilPointer(arg) {
			return "<nil>"
		}
		return v.String()
	}
	return inspect.Sprint(arg)
}

func isNilPointer(arg any) bool {
	v := reflect.ValueOf(arg)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// MarshalCanonical produces the canonical form of a record:
//
//	{"type":"log","arguments":["one","{a:1}"]}
//
// Keys are always in this order. Strings follow the canonical string rules
// of marshalCanonicalString.
func MarshalCanonical(r Record) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(marshalCanonicalString(r.Severity.String()))
	buf.WriteString(`,"arguments":[`)
	for i, arg := range r.Args {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(marshalCanonicalString(RenderArg(arg)))
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

// marshalCanonicalString produces a JSON string with the bytes of s kept
// distinguishable:
//   - No HTML escaping (<, >, & are NOT escaped)
//   - U+2028 and U+2029 are written literally
//   - Only control characters, backslash and quote are escaped
//   - Each byte that is not valid UTF-8 is written as \xNN
func marshalCanonicalString(s string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for len(s) > 0 {
		n := validPrefix(s)
		buf.Write(jsonStringBody(s[:n]))
		if n == len(s) {
			break
		}
		fmt.Fprintf(&buf, `\x%02x`, s[n])
		s = s[n+1:]
	}
	buf.WriteByte('"')

	return unescapeLineSeparators(buf.Bytes())
}

// validPrefix returns the length of the longest valid UTF-8 prefix of s.
func validPrefix(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}

// jsonStringBody encodes valid UTF-8 text as a JSON string without the
// surrounding quotes.
func jsonStringBody(s string) []byte {
	if s == "" {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)

	// json.Encoder adds trailing newline, remove it
	result := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return result[1 : len(result)-1]
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes written by
// encoding/json back into literal characters. An escape preceded by an odd
// number of backslashes is literal text (\\u2028) and is kept.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	backslashes := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\\' && backslashes%2 == 0 && i+5 < len(data) &&
			string(data[i+1:i+5]) == "u202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			backslashes = 0
			continue
		}
		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		out = append(out, c)
	}
	return out
}

// NormalizationVariants reports whether two different canonical forms become
// identical once their text is NFC-normalized. Matching never normalizes;
// this only explains a mismatch that would otherwise look like two equal
// strings.
func NormalizationVariants(a, b string) bool {
	return a != b && norm.NFC.String(a) == norm.NFC.String(b)
}
