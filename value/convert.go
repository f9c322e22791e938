package value

import (
	"math"
	"strconv"
	"strings"
)

// ToBool converts v using PHP truthiness rules.
func ToBool(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case String:
		return x != "" && x != "0"
	case Array:
		return x.Data.Len() > 0
	case ConstArray:
		return len(x.Entries) > 0
	case Object, ObjPayload, Struct, ObjectMap, Resource, Promise:
		return true
	}
	return false
}

// ToInt converts v to an integer. Strings use their leading numeric prefix.
func ToInt(v Value) int64 {
	switch x := v.(type) {
	case Bool:
		if x {
			return 1
		}
		return 0
	case Int:
		return int64(x)
	case Float:
		return floatToInt(float64(x))
	case String:
		n, ok := parseNumberPrefix(string(x))
		if !ok {
			return 0
		}
		if i, isInt := n.(Int); isInt {
			return int64(i)
		}
		return floatToInt(float64(n.(Float)))
	case Array:
		if x.Data.Len() > 0 {
			return 1
		}
		return 0
	case ConstArray:
		if len(x.Entries) > 0 {
			return 1
		}
		return 0
	case Object, ObjPayload, Struct, ObjectMap, Promise:
		return 1
	case Resource:
		return x.ID
	}
	return 0
}

// ToFloat converts v to a float. Strings use their leading numeric prefix.
func ToFloat(v Value) float64 {
	switch x := v.(type) {
	case Float:
		return float64(x)
	case Int:
		return float64(x)
	case String:
		n, ok := parseNumberPrefix(string(x))
		if !ok {
			return 0
		}
		if i, isInt := n.(Int); isInt {
			return float64(i)
		}
		return float64(n.(Float))
	}
	return float64(ToInt(v))
}

// ToNumber converts v to Int or Float, keeping integers exact.
func ToNumber(v Value) Value {
	switch x := v.(type) {
	case Int, Float:
		return x
	case String:
		if n, ok := parseNumberPrefix(string(x)); ok {
			return n
		}
		return Int(0)
	case Null:
		return Int(0)
	}
	return Int(ToInt(v))
}

// ToPHPString converts v to its string form. Arrays become "Array" and
// objects "Object".
func ToPHPString(v Value) string {
	switch x := v.(type) {
	case String:
		return string(x)
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return FormatFloat(float64(x))
	case Bool:
		if x {
			return "1"
		}
		return ""
	case Array, ConstArray:
		return "Array"
	case Object, ObjPayload, Struct, ObjectMap:
		return "Object"
	case Resource:
		return "Resource id #" + strconv.FormatInt(x.ID, 10)
	}
	return ""
}

// FormatFloat formats f with 14 significant digits, the way string
// conversion of a float does.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'G', 14, 64)
	mant, exp, hasExp := strings.Cut(s, "E")
	if !hasExp {
		return s
	}
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign := exp[0]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "E" + string(sign) + digits
}

// IsNumericString reports whether s is a numeric string: optional leading
// and trailing whitespace around a decimal integer or float.
func IsNumericString(s string) bool {
	_, ok := ParseNumeric(s)
	return ok
}

// ParseNumeric parses a whole numeric string into Int or Float.
func ParseNumeric(s string) (Value, bool) {
	n, end := scanNumber(s)
	if end == 0 {
		return nil, false
	}
	for i := end; i < len(s); i++ {
		if !isSpace(s[i]) {
			return nil, false
		}
	}
	return n, true
}

func parseNumberPrefix(s string) (Value, bool) {
	n, end := scanNumber(s)
	return n, end > 0
}

// scanNumber parses the longest numeric prefix of s after leading whitespace.
// It returns the number and the offset just past it, or 0 if there is none.
func scanNumber(s string) (Value, int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	isFloat := false
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			isFloat = true
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return nil, 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			isFloat = true
			i = j
		}
	}
	text := s[start:i]
	if !isFloat {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(n), i
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !math.IsInf(f, 0) {
		return nil, 0
	}
	return Float(f), i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
