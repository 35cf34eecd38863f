package faces

// Match returns the label of the first candidate within tolerance of the descriptor, or UnknownLabel.
// Candidates are walked in the given order and the first hit wins, even if a later one is closer.
func Match(descriptor *Descriptor, candidates []Reference, tolerance float64) string {
	for i := range candidates {
		if descriptor.Distance(&candidates[i].Descriptor) <= tolerance {
			return candidates[i].Label
		}
	}
	return UnknownLabel
}

// MatchAll labels every face against the same candidate list, keeping the order of faces
func MatchAll(found []Face, candidates []Reference, tolerance float64) []Detection {
	result := make([]Detection, len(found))
	for i := range found {
		result[i] = Detection{
			Location: found[i].Location,
			Label:    Match(&found[i].Descriptor, candidates, tolerance),
		}
	}
	return result
}
