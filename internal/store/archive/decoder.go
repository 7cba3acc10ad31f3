package archive

import "bytes"

// lineDecoder reassembles newline-delimited records from a stream that
// arrives in arbitrary byte chunks. A record whose closing bytes land in a
// later chunk is carried over and emitted exactly once, when complete.
type lineDecoder struct {
	carry []byte
}

// Feed appends a chunk and returns every complete line now available. The
// trailing partial line, if any, is retained for the next call.
func (d *lineDecoder) Feed(chunk []byte) [][]byte {
	d.carry = append(d.carry, chunk...)

	var lines [][]byte
	for {
		idx := bytes.IndexByte(d.carry, '\n')
		if idx < 0 {
			break
		}
		line := make([]byte, idx)
		copy(line, d.carry[:idx])
		d.carry = d.carry[idx+1:]

		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

// Flush returns whatever remains after the final chunk. A stream that ends
// without a trailing newline still yields its last record through here.
func (d *lineDecoder) Flush() []byte {
	rest := bytes.TrimSpace(d.carry)
	d.carry = nil
	if len(rest) == 0 {
		return nil
	}
	return rest
}
