package planner

// SplitURI spreads uris over numSplit connections without using any URI
// more than maxIter times. When there are already numSplit or more URIs they
// are returned unchanged. Otherwise the list is repeated
// min(numSplit/len(uris), maxIter) times and, while the per-server cap
// allows, the first numSplit%len(uris) URIs are appended once more.
func SplitURI(uris []string, numSplit, maxIter int) []string {
	n := len(uris)
	if n >= numSplit {
		return append([]string(nil), uris...)
	}
	if n == 0 || maxIter < 1 {
		return nil
	}
	reps := min(numSplit/n, maxIter)
	out := make([]string, 0, numSplit)
	for i := 0; i < reps; i++ {
		out = append(out, uris...)
	}
	if reps < maxIter {
		out = append(out, uris[:numSplit%n]...)
	}
	return out
}
