package domain

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleResourcesReadsOwnProcess(t *testing.T) {
	sample, err := SampleResources(os.Getpid())
	require.NoError(t, err)
	require.Greater(t, sample.MemoryRSSBytes, uint64(0))
}

func TestSampleResourcesErrorsOnImpossiblePID(t *testing.T) {
	_, err := SampleResources(-1)
	require.Error(t, err)
}
