package builder

// fullRevisionLen is the length of a hex SHA-1 commit id.
const fullRevisionLen = 40

// ShortRevision abbreviates a full 40-character commit id to its first seven
// characters. Anything else, such as a tag, is returned unchanged.
func ShortRevision(rev string) string {
	if len(rev) == fullRevisionLen {
		return rev[:7]
	}
	return rev
}
