package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var testCatalog = []string{
	"KIT EPOXI VERDE",
	"KIT EPOXI GRIS",
	"KIT EPOXI PRIMER",
	"POLITOP BLANCO",
	"DISOLVENTE 7043",
	"DISOLVENTE 7000",
}

func TestStartMakesWholeCatalogCandidates(t *testing.T) {
	r := New(testCatalog)
	require.Equal(t, testCatalog, r.Candidates())
	require.Empty(t, r.Buffer())
}

func TestAddTokenNarrowsCandidates(t *testing.T) {
	r := New(testCatalog)

	res := r.AddToken("EPOXI")
	require.Equal(t, StatusPartial, res.Status)
	require.Equal(t, 3, res.Count)
	require.Equal(t, []string{"EPOXI"}, res.Buffer)

	res = r.AddToken("VERDE")
	require.Equal(t, StatusPartial, res.Status)
	require.Equal(t, 1, res.Count)

	name, err := r.Confirm()
	require.NoError(t, err)
	require.Equal(t, "KIT EPOXI VERDE", name)
}

func TestAddTokenRollsBackWhenNothingMatches(t *testing.T) {
	r := New(testCatalog)
	r.AddToken("EPOXI")
	before := r.Candidates()

	res := r.AddToken("XYZNOTOKEN")
	require.Equal(t, StatusInvalid, res.Status)
	require.Equal(t, len(before), res.Count)
	require.Equal(t, before, r.Candidates())
	require.Equal(t, []string{"EPOXI"}, r.Buffer())
}

func TestResolutionIsOrderIndependent(t *testing.T) {
	forward := New(testCatalog)
	forward.AddToken("EPOXI")
	forward.AddToken("GRIS")
	a, err := forward.Confirm()
	require.NoError(t, err)

	backward := New(testCatalog)
	backward.AddToken("GRIS")
	backward.AddToken("EPOXI")
	b, err := backward.Confirm()
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestSpokenDigitsMatchDigitRuns(t *testing.T) {
	r := New(testCatalog)
	for _, d := range []string{"7", "0", "4"} {
		require.Equal(t, StatusPartial, r.AddToken(d).Status)
	}
	name, err := r.Confirm()
	require.NoError(t, err)
	require.Equal(t, "DISOLVENTE 7043", name)
}

func TestRepeatedTokenIsAccepted(t *testing.T) {
	r := New(testCatalog)
	require.Equal(t, StatusPartial, r.AddToken("KIT").Status)

	res := r.AddToken("KIT")
	require.Equal(t, StatusPartial, res.Status)
	require.Equal(t, []string{"KIT", "KIT"}, r.Buffer())
	require.Equal(t, 3, res.Count)
}

func TestRepeatedDigitsMatchSingleOccurrence(t *testing.T) {
	r := New([]string{"EPOXI RAL 7035", "EPOXI RAL 7016"})
	for _, d := range []string{"7", "0", "7"} {
		require.Equal(t, StatusPartial, r.AddToken(d).Status, d)
	}
	require.Equal(t, []string{"7", "0", "7"}, r.Buffer())
	require.Equal(t, 2, r.Len())

	require.Equal(t, StatusPartial, r.AddToken("3").Status)
	name, err := r.Confirm()
	require.NoError(t, err)
	require.Equal(t, "EPOXI RAL 7035", name)
}

func TestTypedDigitRunRollsBackAsUnit(t *testing.T) {
	r := New(testCatalog)
	require.Equal(t, StatusPartial, r.AddToken("DISOLVENTE").Status)

	res := r.AddToken("7099")
	require.Equal(t, StatusInvalid, res.Status)
	require.Equal(t, []string{"DISOLVENTE"}, r.Buffer())

	res = r.AddToken("7043")
	require.Equal(t, StatusPartial, res.Status)
	require.Equal(t, 1, res.Count)
}

func TestConfirmAmbiguous(t *testing.T) {
	r := New(testCatalog)
	r.AddToken("KIT")

	_, err := r.Confirm()
	var ambiguous *AmbiguousError
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, 3, ambiguous.Count)
	require.Equal(t, 3, r.Len())
}

func TestConfirmEmptyCatalog(t *testing.T) {
	r := New(nil)
	_, err := r.Confirm()
	require.EqualError(t, err, "no product candidates")
	require.Equal(t, StatusInvalid, r.AddToken("EPOXI").Status)
}

func TestTokenWithoutTermsIsInvalid(t *testing.T) {
	r := New(testCatalog)
	res := r.AddToken("--")
	require.Equal(t, StatusInvalid, res.Status)
	require.Equal(t, len(testCatalog), res.Count)
}

func TestAccentsFoldOnBothSides(t *testing.T) {
	r := New([]string{"IMPRIMACIÓN GENÉRICA", "KIT EPOXI PRIMER"})
	res := r.AddToken("IMPRIMACION")
	require.Equal(t, StatusPartial, res.Status)
	require.Equal(t, 1, res.Count)
}

func TestRestartAndClear(t *testing.T) {
	r := New(testCatalog)
	r.AddToken("POLITOP")
	r.Restart()
	require.Equal(t, len(testCatalog), r.Len())
	require.Empty(t, r.Buffer())

	r.Clear()
	require.Zero(t, r.Len())
	require.Empty(t, r.Buffer())
}
