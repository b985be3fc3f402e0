package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows_SaltaEncabezado(t *testing.T) {
	in := "codigo;descripcion;cantidad;ubicacion\nA-1;Remera azul;10;Deposito\nB-2; Pantalón ;3;Local\n"
	rows, err := parseRows(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, seedRow{line: 2, code: "A-1", description: "Remera azul", quantity: 10, location: "Deposito"}, rows[0])
	assert.Equal(t, "Pantalón", rows[1].description)
	assert.Equal(t, 3, rows[1].line)
}

func TestParseRows_CantidadInvalida(t *testing.T) {
	in := "A-1;Remera;10;Deposito\nB-2;Pantalón;muchos;Local\n"
	_, err := parseRows(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestDecode_Latin1(t *testing.T) {
	// "Camión" en ISO-8859-1: ó = 0xF3
	raw := []byte("C-1;Cami\xf3n;1;Local\n")
	out, err := io.ReadAll(decode(raw))
	require.NoError(t, err)
	assert.Equal(t, "C-1;Camión;1;Local\n", string(out))
}

func TestDecode_UTF8ConBOM(t *testing.T) {
	out, err := io.ReadAll(decode([]byte("\xef\xbb\xbfC-1;Camión;1;Local\n")))
	require.NoError(t, err)
	assert.Equal(t, "C-1;Camión;1;Local\n", string(out))
}
