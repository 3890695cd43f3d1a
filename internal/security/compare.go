package security

// ConstantTimeEqual reports whether a and b are equal without leaking the position
// of the first differing byte. Length mismatch returns false immediately; length is
// not treated as secret here. For equal-length inputs every byte pair is visited and
// folded into a single accumulator, so the comparison always costs the full length.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := 0; i < len(a); i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
