package nidkg

import (
	"testing"

	"github.com/drand/kyber"
	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/curve"
)

func genReceiverKeys(t *testing.T, n int) ([]*FSKeyPair, []kyber.Point, [][]byte) {
	t.Helper()
	stream := curve.DefaultStream()
	pairs := make([]*FSKeyPair, n)
	pks := make([]kyber.Point, n)
	pops := make([][]byte, n)
	for i := 0; i < n; i++ {
		kp, pop, err := GenerateFSKeyPair(stream)
		require.NoError(t, err)
		pairs[i], pks[i], pops[i] = kp, kp.PublicKey, pop
	}
	return pairs, pks, pops
}

func TestUnivariateNIDKGRecoversConsistentKeys(t *testing.T) {
	const n, d, t1 = 4, 4, 3
	stream := curve.DefaultStream()

	pairs, pks, pops := genReceiverKeys(t, n)
	require.NoError(t, VerifyReceiverKeys(pks, pops))

	dealings := make([]*Dealing, d)
	for dealer := 0; dealer < d; dealer++ {
		dl, err := Deal(uint32(dealer), t1, n, pks, stream)
		require.NoError(t, err)
		require.NoError(t, VerifyDealing(dl, pks))
		dealings[dealer] = dl
	}

	tr, err := NewTranscript(dealings, n)
	require.NoError(t, err)

	g2 := curve.G2()
	for i := 0; i < n; i++ {
		share, err := RecoverKey(pairs[i].SecretKey, i, n, tr)
		require.NoError(t, err)
		want := IndividualPublicKey(tr, i)
		got := g2.Point().Mul(share, g2.Point().Base())
		require.True(t, want.Equal(got), "recipient %d recovered an inconsistent share", i)
	}
}

func TestUnivariateNIDKGRejectsTamperedCiphertext(t *testing.T) {
	const n, t1 = 3, 2
	stream := curve.DefaultStream()

	_, pks, pops := genReceiverKeys(t, n)
	require.NoError(t, VerifyReceiverKeys(pks, pops))

	dl, err := Deal(0, t1, n, pks, stream)
	require.NoError(t, err)

	g1 := curve.G1()
	tampered := dl.Ciphertexts[0]
	tampered[0].C2 = g1.Point().Add(tampered[0].C2, g1.Point().Base())
	dl.Ciphertexts[0] = tampered

	require.Error(t, VerifyDealing(dl, pks))
}

func TestUnivariateNIDKGRejectsBadPoP(t *testing.T) {
	_, pks, pops := genReceiverKeys(t, 2)
	bogus := append([]byte(nil), pops[0]...)
	bogus[0] ^= 0xff
	require.Error(t, VerifyReceiverKeys(pks, [][]byte{bogus, pops[1]}))
}

func TestBivariateNIDKGRecoversConsistentKeys(t *testing.T) {
	const n, m, d, t1, tp = 3, 2, 3, 2, 2
	stream := curve.DefaultStream()

	pairs, pks, pops := genReceiverKeys(t, n*m)
	require.NoError(t, VerifyReceiverKeys(pks, pops))

	dealings := make([]*BiDealing, d)
	for dealer := 0; dealer < d; dealer++ {
		dl, err := DealBivariate(uint32(dealer), n, m, t1, tp, pks, stream)
		require.NoError(t, err)
		require.NoError(t, VerifyBiDealing(dl, n, m, pks))
		dealings[dealer] = dl
	}

	tr, err := NewBiTranscript(dealings, n, m)
	require.NoError(t, err)

	g2 := curve.G2()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			share, err := RecoverBiKey(pairs[flatIndex(m, i, j)].SecretKey, i, j, n, m, tr)
			require.NoError(t, err)
			want := BiIndividualPublicKey(tr, i, j)
			got := g2.Point().Mul(share, g2.Point().Base())
			require.True(t, want.Equal(got), "recipient (%d,%d) recovered an inconsistent share", i, j)
		}
	}
}
