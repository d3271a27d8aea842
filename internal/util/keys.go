package util

// CacheKey returns the composite on-disk key for an (input, transform)
// fingerprint pair: the first 16 hex chars of each digest joined by "_".
// Truncation keeps filenames short at a theoretical collision risk; the
// manifest retains the full fingerprints for post-lookup verification.
func CacheKey(inputFP, transformFP string) string {
	return prefix16(inputFP) + "_" + prefix16(transformFP)
}

func prefix16(fp string) string {
	if len(fp) > 16 {
		return fp[:16]
	}
	return fp
}
