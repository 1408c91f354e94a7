package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFramesSingle(t *testing.T) {
	frames, rest := ExtractFrames([]byte("[SG*123*XX*LK]"))
	require.Len(t, frames, 1)
	assert.Equal(t, "[SG*123*XX*LK]", string(frames[0]))
	assert.Empty(t, rest)
}

func TestExtractFramesBatched(t *testing.T) {
	frames, rest := ExtractFrames([]byte("[SG*1*XX*LK][SG*2*XX*LK][SG*3*XX*LK]"))
	require.Len(t, frames, 3)
	assert.Equal(t, "[SG*1*XX*LK]", string(frames[0]))
	assert.Equal(t, "[SG*2*XX*LK]", string(frames[1]))
	assert.Equal(t, "[SG*3*XX*LK]", string(frames[2]))
	assert.Empty(t, rest)
}

func TestExtractFramesPartialTail(t *testing.T) {
	frames, rest := ExtractFrames([]byte("[SG*1*XX*LK][SG*2*XX*GP"))
	require.Len(t, frames, 1)
	assert.Equal(t, "[SG*2*XX*GP", string(rest))
}

func TestExtractFramesNoBracket(t *testing.T) {
	frames, rest := ExtractFrames([]byte("noise without any frame"))
	assert.Empty(t, frames)
	assert.Equal(t, "noise without any frame", string(rest))
}

func TestExtractFramesGarbageBetweenFrames(t *testing.T) {
	frames, rest := ExtractFrames([]byte("xx[SG*1*XX*LK]yy[SG*2*XX*LK]zz"))
	require.Len(t, frames, 2)
	assert.Equal(t, "zz", string(rest))
}

func TestExtractFramesUnterminatedOpenRetained(t *testing.T) {
	frames, rest := ExtractFrames([]byte("[SG*1*XX*LK]ab[SG*2"))
	require.Len(t, frames, 1)
	// content between the matched frame and the dangling open bracket
	// survives exactly once
	assert.Equal(t, "ab[SG*2", string(rest))
}

// Decoded output must not depend on how the TCP stream was chunked.
func TestExtractFramesChunkBoundaryIndependent(t *testing.T) {
	stream := []byte("[SG*1*XX*LK][SG*2*XX*GPS,010125,120000,A,22.5,N,114.1,E,36.0,90]junk[SG*3*XX*AL,1]")

	whole, _ := ExtractFrames(stream)
	require.Len(t, whole, 3)

	for split1 := 0; split1 <= len(stream); split1++ {
		for split2 := split1; split2 <= len(stream); split2 += 7 {
			var got [][]byte
			var buf []byte
			for _, chunk := range [][]byte{stream[:split1], stream[split1:split2], stream[split2:]} {
				buf = append(buf, chunk...)
				var frames [][]byte
				frames, buf = ExtractFrames(buf)
				got = append(got, frames...)
			}
			require.Len(t, got, len(whole), "splits at %d/%d", split1, split2)
			for i := range whole {
				assert.Equal(t, string(whole[i]), string(got[i]))
			}
		}
	}
}
