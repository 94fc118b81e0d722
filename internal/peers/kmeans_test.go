package peers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineKMeansSeparatesObviousClusters(t *testing.T) {
	// Two directions, three points each; magnitudes differ on purpose since
	// cosine clustering must ignore them.
	vectors := [][]float64{
		{1, 0.1, 0}, {2, 0.1, 0}, {10, 0.5, 0},
		{0, 0.1, 1}, {0, 0.1, 2}, {0, 0.5, 10},
	}

	labels := cosineKMeans(vectors, 2, 100, 42)
	require.Len(t, labels, 6)

	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3])
}

func TestCosineKMeansDeterministicForSeed(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0}, {0.9, 0.1, 0}, {0, 1, 0}, {0.1, 0.9, 0},
		{0, 0, 1}, {0, 0.1, 0.9}, {0.5, 0.5, 0}, {0, 0.5, 0.5},
	}

	first := cosineKMeans(vectors, 3, 200, 42)
	second := cosineKMeans(vectors, 3, 200, 42)
	assert.Equal(t, first, second)
}

func TestCosineKMeansCapsKAtPointCount(t *testing.T) {
	vectors := [][]float64{{1, 0}, {0, 1}}
	labels := cosineKMeans(vectors, 10, 50, 42)
	require.Len(t, labels, 2)
	assert.NotEqual(t, labels[0], labels[1])
}

func TestCosineKMeansEmptyInput(t *testing.T) {
	assert.Nil(t, cosineKMeans(nil, 3, 50, 42))
}
