package arrays

// natCompare orders strings so that embedded runs of ASCII digits compare
// by magnitude: "img2" < "img10", "x3" < "x05". Runs of equal magnitude
// ("5", "05") compare equal and scanning continues; when one string runs
// out, the shorter string sorts first. With foldCase, ASCII letters are
// lower-cased before comparison.
func natCompare(a, b string, foldCase bool) int {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		ca, cb := a[ai], b[bi]

		if isDigitByte(ca) && isDigitByte(cb) {
			ea, eb := digitRunEnd(a, ai), digitRunEnd(b, bi)
			if r := compareMagnitude(a[ai:ea], b[bi:eb]); r != 0 {
				return r
			}
			ai, bi = ea, eb
			continue
		}

		if foldCase {
			ca, cb = lowerByte(ca), lowerByte(cb)
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		ai++
		bi++
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func digitRunEnd(s string, i int) int {
	for i < len(s) && isDigitByte(s[i]) {
		i++
	}
	return i
}

// compareMagnitude compares two digit runs as unsigned integers of any
// length.
func compareMagnitude(x, y string) int {
	for len(x) > 1 && x[0] == '0' {
		x = x[1:]
	}
	for len(y) > 1 && y[0] == '0' {
		y = y[1:]
	}
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
