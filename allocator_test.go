package cfb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateChainLinksSectorsInOrder(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	defer doc.Close()

	chain, err := doc.allocateChain(5)
	require.NoError(t, err)
	require.Len(t, chain, 5)

	got, err := doc.followChain(chain[0], doc.sat)
	require.NoError(t, err)
	require.Equal(t, chain, got)
}

func TestAllocateChainZeroIsNoOp(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	defer doc.Close()

	chain, err := doc.allocateChain(0)
	require.NoError(t, err)
	require.Nil(t, chain)
}

func TestFollowChainDetectsCycle(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	defer doc.Close()

	chain, err := doc.allocateChain(3)
	require.NoError(t, err)
	doc.sat[chain[2]] = chain[0] // close the chain into a loop

	_, err = doc.followChain(chain[0], doc.sat)
	require.True(t, errors.Is(err, ErrCycle))
}

func TestAllocateSectorGrowsSATPastOnePage(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	defer doc.Close()

	// One SAT page covers 128 sector-id slots; allocate enough
	// sectors to force at least one growth cycle.
	chain, err := doc.allocateChain(150)
	require.NoError(t, err)
	require.Len(t, chain, 150)
	require.GreaterOrEqual(t, len(doc.sat), 150)

	got, err := doc.followChain(chain[0], doc.sat)
	require.NoError(t, err)
	require.Equal(t, chain, got)
}

func TestAllocateShortChainLinksShortSectorsInOrder(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	defer doc.Close()

	chain, err := doc.allocateShortChain(4)
	require.NoError(t, err)
	require.Len(t, chain, 4)

	got, err := doc.followChain(chain[0], doc.ssat)
	require.NoError(t, err)
	require.Equal(t, chain, got)
}
