// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareDottedCore(t *testing.T) {
	assert.Equal(t, 0, Compare("5.2", "5.2.0"))
	assert.Equal(t, -1, Compare("5.2", "5.2.1"))
	assert.Equal(t, 1, Compare("5.10", "5.2"))
}

func TestCompareHyphenSuffix(t *testing.T) {
	assert.True(t, Less("5.3-1", "5.3-2"))
	assert.True(t, Less("5.3", "5.3-1"))
}

func TestCompareAntisymmetricAndTransitive(t *testing.T) {
	versions := []string{"4.19", "5.0", "5.0.10", "5.1", "5.1.2", "5.2", "5.2.2", "5.3", "5.3.4", "5.4"}
	for i := 0; i < len(versions); i++ {
		for j := 0; j < len(versions); j++ {
			assert.Equal(t, -Compare(versions[i], versions[j]), Compare(versions[j], versions[i]))
		}
	}
	for i := 0; i < len(versions)-1; i++ {
		assert.True(t, Less(versions[i], versions[i+1]), "%s should be < %s", versions[i], versions[i+1])
	}
}
