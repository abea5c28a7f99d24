package utils

// NaturalCompare compares two strings so that embedded runs of digits are
// ordered by numeric value ("android-9" < "android-10"). Leading zeroes are
// ignored. It returns -1, 0 or +1.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for si < len(a) && a[si] == '0' {
				si++
			}
			sj := j
			for sj < len(b) && b[sj] == '0' {
				sj++
			}
			ei, ej := si, sj
			for ei < len(a) && isDigit(a[ei]) {
				ei++
			}
			for ej < len(b) && isDigit(b[ej]) {
				ej++
			}

			// a longer run of significant digits is a bigger number
			if ei-si != ej-sj {
				if ei-si < ej-sj {
					return -1
				}
				return 1
			}
			for k := 0; k < ei-si; k++ {
				if a[si+k] != b[sj+k] {
					if a[si+k] < b[sj+k] {
						return -1
					}
					return 1
				}
			}
			i, j = ei, ej
			continue
		}

		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
