package mafia

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDeviceIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("device-%d", i)
	}
	return ids
}

func TestAssignRoles_DistributionMatchesTableForAllSizes(t *testing.T) {
	for n := 4; n <= 20; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ids := makeDeviceIDs(n)
			roles := assignRoles(ids)

			require.Len(t, roles, n, "every device must receive exactly one role")

			counts := map[Role]int{}
			for _, id := range ids {
				role, ok := roles[id]
				require.True(t, ok, "device %s missing from role map", id)
				counts[role]++
			}

			assert.Equal(t, mafiaCount(n), counts[RoleMafia])
			if hasDoctor(n) {
				assert.Equal(t, 1, counts[RoleDoctor])
			} else {
				assert.Equal(t, 0, counts[RoleDoctor])
			}
			if hasPolice(n) {
				assert.Equal(t, 1, counts[RolePolice])
			} else {
				assert.Equal(t, 0, counts[RolePolice])
			}

			wantCivilian := n - mafiaCount(n)
			if hasDoctor(n) {
				wantCivilian--
			}
			if hasPolice(n) {
				wantCivilian--
			}
			assert.Equal(t, wantCivilian, counts[RoleCivilian])
		})
	}
}

func TestMafiaCount_Thresholds(t *testing.T) {
	assert.Equal(t, 1, mafiaCount(4))
	assert.Equal(t, 1, mafiaCount(5))
	assert.Equal(t, 2, mafiaCount(6))
	assert.Equal(t, 2, mafiaCount(8))
	assert.Equal(t, 3, mafiaCount(9))
	assert.Equal(t, 3, mafiaCount(20))
}

func TestHasDoctorAndHasPolice_Thresholds(t *testing.T) {
	assert.False(t, hasDoctor(5))
	assert.True(t, hasDoctor(6))
	assert.False(t, hasPolice(6))
	assert.True(t, hasPolice(7))
}
