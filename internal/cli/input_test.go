package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Nom", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Nom\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Nom", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Nom", &out)
	assert.Error(t, err)
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetWithDefault(rdr("\n"), "Prix", "100", &out)
	require.NoError(t, err)
	assert.Equal(t, "100", got)
	assert.Contains(t, out.String(), "Prix [100]")

	got, err = GetWithDefault(rdr("250\n"), "Prix", "100", &out)
	require.NoError(t, err)
	assert.Equal(t, "250", got)
}

func TestGetLines(t *testing.T) {
	var out bytes.Buffer
	got, err := GetLines(rdr("a.png\n b.png \n\nignored\n"), "Images", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, got)

	got, err = GetLines(rdr("only"), "Images", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("pw123"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Mot de passe", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("pw123"), pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword("Mot de passe", &out)
	assert.Error(t, err)
}

func TestConfirmer(t *testing.T) {
	var out bytes.Buffer
	for in, want := range map[string]bool{"y\n": true, "oui\n": true, "O\n": true, "n\n": false, "\n": false, "": false} {
		got := confirmer(rdr(in), &out)("Supprimer ?")
		assert.Equal(t, want, got, "input %q", in)
	}
	assert.Contains(t, out.String(), "Supprimer ? [y/N]")
}
