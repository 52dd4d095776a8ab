//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	integerText   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	zeroFraction  = regexp.MustCompile(`^(-?[0-9]+)\.0+$`)
	plainIntegerR = regexp.MustCompile(`^-?[0-9]+$`)
)

// DelimiterSpacing inserts a single space after every delimiter that is not
// already followed by one. A delimiter at the end of the value is left
// alone.
func DelimiterSpacing(name, delimiter string, columns ...string) RecordRule {
	if delimiter == "" {
		delimiter = ","
	}
	return &columnRule{
		name:    name,
		kind:    KindDelimiterSpacing,
		columns: columns,
		fn: pureText(func(s string) string {
			return spaceAfter(s, delimiter)
		}),
	}
}

func spaceAfter(s, delim string) string {
	if !strings.Contains(s, delim) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for {
		i := strings.Index(s, delim)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i+len(delim)])
		s = s[i+len(delim):]
		if s != "" && s[0] != ' ' {
			b.WriteByte(' ')
		}
	}
}

// TitleCase converts text to English title case. A Caser is stateful, so
// a new one is created per value.
func TitleCase(name string, columns ...string) RecordRule {
	return &columnRule{
		name:    name,
		kind:    KindTitleCase,
		columns: columns,
		fn: pureText(func(s string) string {
			return cases.Title(language.English).String(s)
		}),
	}
}

// NoiseStrip removes every match of pattern from the columns. The pattern
// must match noise only, e.g. `\\+` for runs of literal backslashes.
func NoiseStrip(name, pattern string, columns ...string) (RecordRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad pattern: %v", ErrInvalidRule, name, err)
	}
	if re.MatchString("") {
		return nil, fmt.Errorf("%w: %s: pattern matches the empty string", ErrInvalidRule, name)
	}
	return &columnRule{
		name:    name,
		kind:    KindNoiseStrip,
		columns: columns,
		fn: pureText(func(s string) string {
			return re.ReplaceAllString(s, "")
		}),
	}, nil
}

// Remap replaces legacy category labels using an explicit lookup table.
// Values not in the table pass through unchanged.
func Remap(name, column string, mapping map[string]string) (RecordRule, error) {
	table := make(map[string]string, len(mapping))
	for from, to := range mapping {
		if next, ok := mapping[to]; ok && next != to {
			return nil, fmt.Errorf("%w: %s: %q maps to %q which is remapped again to %q",
				ErrInvalidRule, name, from, to, next)
		}
		table[from] = to
	}
	return &columnRule{
		name:    name,
		kind:    KindRemap,
		columns: []string{column},
		fn: pureText(func(s string) string {
			if to, ok := table[s]; ok {
				return to
			}
			return s
		}),
	}, nil
}

// ControlStrip removes non-printable control characters such as carriage
// returns. It must run before any rule that groups by the same column.
func ControlStrip(name string, columns ...string) RecordRule {
	return &columnRule{
		name:    name,
		kind:    KindControlStrip,
		columns: columns,
		fn: pureText(func(s string) string {
			return strings.Map(func(r rune) rune {
				if unicode.IsControl(r) {
					return -1
				}
				return r
			}, s)
		}),
	}
}

// NumericSuffix strips a zero fraction from numeric-as-text identifiers
// ("567335.0" becomes "567335") so they join against integer keys.
func NumericSuffix(name string, columns ...string) RecordRule {
	return &columnRule{
		name:    name,
		kind:    KindNumericSuffix,
		columns: columns,
		fn: func(v any) (any, error) {
			switch t := v.(type) {
			case nil, int64:
				return v, nil
			case string:
				if plainIntegerR.MatchString(t) {
					return t, nil
				}
				if m := zeroFraction.FindStringSubmatch(t); m != nil {
					return m[1], nil
				}
				return nil, malformed("%q is not an integer identifier", t)
			default:
				return nil, malformed("expected identifier, got %T", v)
			}
		},
	}
}

// Integer checks integer columns. Integer text is rewritten in canonical
// decimal form ("0200" becomes "200") so it survives a round trip through a
// text column unchanged; int64 passes; anything else is malformed.
func Integer(name string, columns ...string) RecordRule {
	return &columnRule{
		name:    name,
		kind:    KindInteger,
		columns: columns,
		fn: func(v any) (any, error) {
			switch t := v.(type) {
			case nil, int64:
				return v, nil
			case int:
				return int64(t), nil
			case int32:
				return int64(t), nil
			case string:
				if !integerText.MatchString(t) {
					return nil, malformed("%q is not an integer", t)
				}
				n, err := strconv.ParseInt(t, 10, 64)
				if err != nil {
					return nil, malformed("%q: %v", t, err)
				}
				return strconv.FormatInt(n, 10), nil
			default:
				return nil, malformed("expected integer, got %T", v)
			}
		},
	}
}
