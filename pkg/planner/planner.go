package planner

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// MissingDigests returns the digests present locally but not remotely.
func MissingDigests(local, remote DigestIndex) mapset.Set[string] {
	remoteSet := mapset.NewThreadUnsafeSet(remote.Digests()...)
	localSet := mapset.NewThreadUnsafeSet(local.Digests()...)
	return localSet.Difference(remoteSet)
}

// Plan pairs every missing digest with its local file. The result depends
// only on the two indexes, so planning twice gives the same plan.
func Plan(local, remote DigestIndex) UploadPlan {
	missing := MissingDigests(local, remote)

	plan := make(UploadPlan, 0, missing.Cardinality())
	for _, d := range missing.ToSlice() {
		plan = append(plan, Upload{
			Digest:    d,
			LocalPath: local[d],
		})
	}

	sort.Slice(plan, func(i, j int) bool {
		return plan[i].Digest < plan[j].Digest
	})

	return plan
}
