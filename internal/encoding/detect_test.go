package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/vignettes/internal/encoding"
)

func TestDecode_UTF8Passthrough(t *testing.T) {
	input := "Plaque;Propriétaire;Catégorie\nAB123CD;Jean Mukendi;Véhicule utilitaire\n"

	r, cs, err := encoding.Decode(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, cs)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestDecode_Windows1252(t *testing.T) {
	want := "Plaque;Propriétaire;Châssis\n"

	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	r, cs, err := encoding.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.NotEqual(t, encoding.CharsetUTF8, cs)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestNewUTF8Reader_StripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Plaque;Propriétaire\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Plaque;Propriétaire\n", string(got))
}

func TestDetect_UTF16(t *testing.T) {
	assert.Equal(t, encoding.CharsetUTF16LE, encoding.Detect([]byte{0xFF, 0xFE, 'P', 0}))
	assert.Equal(t, encoding.CharsetUTF16BE, encoding.Detect([]byte{0xFE, 0xFF, 0, 'P'}))
}
