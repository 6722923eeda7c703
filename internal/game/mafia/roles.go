package mafia

import "math/rand"

// mafiaCount, hasDoctor, and hasPolice implement the role-count table:
// 1 mafia for n<=5, 2 for n<=8, else 3; a doctor from n>=6; a police
// from n>=7; the rest civilian.
func mafiaCount(n int) int {
	switch {
	case n <= 5:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

func hasDoctor(n int) bool { return n >= 6 }
func hasPolice(n int) bool { return n >= 7 }

// assignRoles shuffles deviceIDs and returns a deviceId -> Role map
// following the distribution above. Requires len(deviceIDs) >= 4.
func assignRoles(deviceIDs []string) map[string]Role {
	ids := make([]string, len(deviceIDs))
	copy(ids, deviceIDs)
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	n := len(ids)
	roles := make(map[string]Role, n)
	i := 0
	for c := 0; c < mafiaCount(n); c++ {
		roles[ids[i]] = RoleMafia
		i++
	}
	if hasDoctor(n) {
		roles[ids[i]] = RoleDoctor
		i++
	}
	if hasPolice(n) {
		roles[ids[i]] = RolePolice
		i++
	}
	for ; i < n; i++ {
		roles[ids[i]] = RoleCivilian
	}
	return roles
}
