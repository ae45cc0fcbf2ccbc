package conf

// MergeDefaults collapses per-section default maps into a single map,
// prefixing every key with the section namespace. An empty namespace
// leaves keys untouched, which merges already-namespaced sections into
// one root map.
func MergeDefaults[M ~map[string]V, V any](ns string, maps ...M) M {
	fullCap := 0
	for _, m := range maps {
		fullCap += len(m)
	}

	merged := make(M, fullCap)
	for _, m := range maps {
		for key, val := range m {
			if ns == "" {
				merged[key] = val
			} else {
				merged[ns+"."+key] = val
			}
		}
	}

	return merged
}
