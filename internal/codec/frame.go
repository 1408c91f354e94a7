package codec

import "bytes"

// ExtractFrames scans the accumulated buffer for complete [...]-delimited
// frames. The protocol has no length prefix, so a frame may span several
// reads or several frames may arrive in one read; callers append each chunk
// to their buffer and keep the returned rest for the next read.
//
// Frames are returned in the order their closing bracket appeared. The rest
// is everything after the last ']' in the buffer; when no ']' exists yet the
// whole buffer is retained, bounded only by the caller's buffer cap.
func ExtractFrames(buf []byte) (frames [][]byte, rest []byte) {
	i := 0
	for {
		open := bytes.IndexByte(buf[i:], '[')
		if open < 0 {
			break
		}
		open += i
		end := bytes.IndexByte(buf[open:], ']')
		if end < 0 {
			break
		}
		end += open
		frame := make([]byte, end-open+1)
		copy(frame, buf[open:end+1])
		frames = append(frames, frame)
		i = end + 1
	}

	if last := bytes.LastIndexByte(buf, ']'); last >= 0 {
		return frames, buf[last+1:]
	}
	return frames, buf
}
