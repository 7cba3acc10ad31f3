package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineDecoderSplitsCompleteLines(t *testing.T) {
	d := &lineDecoder{}

	lines := d.Feed([]byte("{\"id\":\"a\"}\n{\"id\":\"b\"}\n"))
	require.Len(t, lines, 2)
	require.Equal(t, `{"id":"a"}`, string(lines[0]))
	require.Equal(t, `{"id":"b"}`, string(lines[1]))
	require.Nil(t, d.Flush())
}

func TestLineDecoderCarriesPartialLineAcrossChunks(t *testing.T) {
	d := &lineDecoder{}

	// The record's closing brace arrives in the second chunk.
	lines := d.Feed([]byte("{\"id\":\"a\",\"views\":12"))
	require.Empty(t, lines)

	lines = d.Feed([]byte("3}\n{\"id\":\"b\"}\n"))
	require.Len(t, lines, 2)
	require.Equal(t, `{"id":"a","views":123}`, string(lines[0]))
	require.Equal(t, `{"id":"b"}`, string(lines[1]))
}

func TestLineDecoderFlushReturnsTrailingRecord(t *testing.T) {
	d := &lineDecoder{}

	lines := d.Feed([]byte("{\"id\":\"a\"}\n{\"id\":\"b\"}"))
	require.Len(t, lines, 1)

	rest := d.Flush()
	require.Equal(t, `{"id":"b"}`, string(rest))

	// Flush drains the carry buffer.
	require.Nil(t, d.Flush())
}

func TestLineDecoderSkipsBlankLinesAndCRLF(t *testing.T) {
	d := &lineDecoder{}

	lines := d.Feed([]byte("{\"id\":\"a\"}\r\n\n   \n{\"id\":\"b\"}\r\n"))
	require.Len(t, lines, 2)
	require.Equal(t, `{"id":"a"}`, string(lines[0]))
	require.Equal(t, `{"id":"b"}`, string(lines[1]))
}

func TestLineDecoderSingleByteChunks(t *testing.T) {
	d := &lineDecoder{}
	input := "{\"id\":\"a\"}\n{\"id\":\"b\"}\n"

	var lines [][]byte
	for i := 0; i < len(input); i++ {
		lines = append(lines, d.Feed([]byte{input[i]})...)
	}

	require.Len(t, lines, 2)
	require.Equal(t, `{"id":"a"}`, string(lines[0]))
	require.Equal(t, `{"id":"b"}`, string(lines[1]))
}
