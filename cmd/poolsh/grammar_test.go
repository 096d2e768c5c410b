package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjardin/ecoli"
)

func Test_Grammar_PoolAddListDel(t *testing.T) {
	store := NewStore()
	box := &resultBox{cur: &result{}}
	grammar, err := buildGrammar(store, box)
	require.NoError(t, err)
	defer ecoli.Free(grammar)

	res, err := runLine(grammar, box, "pool add west")
	require.NoError(t, err)
	require.NotEmpty(t, res.lines)
	assert.Contains(t, res.lines[0], "added pool west")
	assert.Equal(t, []string{"west"}, store.Names())

	res, err = runLine(grammar, box, "pool list")
	require.NoError(t, err)
	require.NotEmpty(t, res.lines)
	assert.Contains(t, res.lines[0], "west")

	res, err = runLine(grammar, box, "pool del west")
	require.NoError(t, err)
	require.NotEmpty(t, res.lines)
	assert.Contains(t, res.lines[0], "deleted pool west")
	assert.Empty(t, store.Names())
}

func Test_Grammar_AddrAddListDel(t *testing.T) {
	store := NewStore()
	store.AddPool("east")
	box := &resultBox{cur: &result{}}
	grammar, err := buildGrammar(store, box)
	require.NoError(t, err)
	defer ecoli.Free(grammar)

	_, err = runLine(grammar, box, "addr pool east add 192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.1"}, store.Get("east").Addresses)

	_, err = runLine(grammar, box, "addr pool east del 192.168.1.1")
	require.NoError(t, err)
	assert.Empty(t, store.Get("east").Addresses)
}

func Test_Grammar_Exit(t *testing.T) {
	store := NewStore()
	box := &resultBox{cur: &result{}}
	grammar, err := buildGrammar(store, box)
	require.NoError(t, err)
	defer ecoli.Free(grammar)

	res, err := runLine(grammar, box, "exit")
	require.NoError(t, err)
	assert.True(t, res.quit)
}

func Test_Grammar_ParseError(t *testing.T) {
	store := NewStore()
	box := &resultBox{cur: &result{}}
	grammar, err := buildGrammar(store, box)
	require.NoError(t, err)
	defer ecoli.Free(grammar)

	res, err := runLine(grammar, box, "bogus command")
	require.NoError(t, err)
	require.Len(t, res.lines, 1)
	assert.Contains(t, res.lines[0], "parse error")
}
