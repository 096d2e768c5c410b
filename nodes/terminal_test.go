package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjardin/ecoli"
)

func Test_Str_matchesExactToken(t *testing.T) {
	n, err := Str("x", "foo")
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("foo"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())

	pn2, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("bar"))
	require.NoError(t, err)
	assert.False(t, pn2.Matches())

	pn3, err := ecoli.ParseStrvec(n, ecoli.NewStrVec())
	require.NoError(t, err)
	assert.False(t, pn3.Matches())
}

func Test_Str_completion(t *testing.T) {
	n, err := Str("x", "foo")
	require.NoError(t, err)
	defer ecoli.Free(n)

	comp, err := ecoli.CompleteStrvec(n, ecoli.NewStrVec("fo"))
	require.NoError(t, err)
	item := comp.IterFirst(ecoli.CompFull)
	require.NotNil(t, item)
	assert.Equal(t, "foo", item.Str())
}

func Test_Any_matchesAnyToken(t *testing.T) {
	n, err := Any("x")
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("whatever"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())

	pn2, err := ecoli.ParseStrvec(n, ecoli.NewStrVec())
	require.NoError(t, err)
	assert.False(t, pn2.Matches())
}

func Test_Empty_matchesZeroTokens(t *testing.T) {
	n, err := Empty("x")
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec())
	require.NoError(t, err)
	assert.True(t, pn.Matches())
	assert.Equal(t, 0, pn.Strvec().Len())
}

func Test_Space_matchesWhitespaceToken(t *testing.T) {
	n, err := Space("x")
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec(" \t"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())

	pn2, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("x"))
	require.NoError(t, err)
	assert.False(t, pn2.Matches())

	pn3, err := ecoli.ParseStrvec(n, ecoli.NewStrVec(""))
	require.NoError(t, err)
	assert.False(t, pn3.Matches())
}

func Test_Re_matchesWholeToken(t *testing.T) {
	n, err := Re("x", "[0-9]+")
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("123"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())

	// partial match of the pattern within a longer token is rejected: the
	// match must span the whole token.
	pn2, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("123abc"))
	require.NoError(t, err)
	assert.False(t, pn2.Matches())
}

func Test_Re_invalidPattern(t *testing.T) {
	_, err := Re("x", "[")
	assert.Error(t, err)
}

func Test_Int_rangeAndBase(t *testing.T) {
	n, err := Int("x", 0, 10, 10)
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("5"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())

	pn2, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("11"))
	require.NoError(t, err)
	assert.False(t, pn2.Matches())

	pn3, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("-1"))
	require.NoError(t, err)
	assert.False(t, pn3.Matches())

	pn4, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("notanumber"))
	require.NoError(t, err)
	assert.False(t, pn4.Matches())
}

func Test_IntGetVal(t *testing.T) {
	n, err := Int("x", 0, 100, 10)
	require.NoError(t, err)
	defer ecoli.Free(n)

	v, err := IntGetVal(n, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = IntGetVal(n, "nope")
	assert.Error(t, err)
}

func Test_Uint_rangeAndBase(t *testing.T) {
	n, err := Uint("x", 0, 10, 10)
	require.NoError(t, err)
	defer ecoli.Free(n)

	pn, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("7"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())

	// a leading '-' is never valid for an unsigned match, even though
	// strconv.ParseUint would otherwise happily reject it too.
	pn2, err := ecoli.ParseStrvec(n, ecoli.NewStrVec("-1"))
	require.NoError(t, err)
	assert.False(t, pn2.Matches())
}

func Test_UintGetVal(t *testing.T) {
	n, err := Uint("x", 0, 100, 10)
	require.NoError(t, err)
	defer ecoli.Free(n)

	v, err := UintGetVal(n, "42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = UintGetVal(n, "-1")
	assert.Error(t, err)
}
