package evaluator

// Byte strings double as big-endian bit buffers: byte 0 holds the most
// significant bits. Every operation returns a fresh buffer of the input length.

func shiftLeft(buf []byte, n int) []byte {
	res := make([]byte, len(buf))
	skip, bits := n/8, uint(n%8)
	for i := range res {
		src := i + skip
		if src >= len(buf) || src < 0 {
			break
		}
		v := buf[src] << bits
		if bits > 0 && src+1 < len(buf) {
			v |= buf[src+1] >> (8 - bits)
		}
		res[i] = v
	}
	return res
}

func shiftRight(buf []byte, n int) []byte {
	res := make([]byte, len(buf))
	skip, bits := n/8, uint(n%8)
	for i := range res {
		src := i - skip
		if src < 0 {
			continue
		}
		v := buf[src] >> bits
		if bits > 0 && src > 0 {
			v |= buf[src-1] << (8 - bits)
		}
		res[i] = v
	}
	return res
}

// bitwise combines two equal-length buffers byte by byte with &, | or ^.
func bitwise(op byte, a, b []byte) []byte {
	res := make([]byte, len(a))
	for i := range a {
		switch op {
		case '&':
			res[i] = a[i] & b[i]
		case '|':
			res[i] = a[i] | b[i]
		default:
			res[i] = a[i] ^ b[i]
		}
	}
	return res
}

// trim drops n bytes from the start (fromLeft) or the end of buf.
func trim(buf []byte, n int, fromLeft bool) []byte {
	if n > len(buf) {
		n = len(buf)
	}
	var part []byte
	if fromLeft {
		part = buf[n:]
	} else {
		part = buf[:len(buf)-n]
	}
	return append([]byte{}, part...)
}
