package guardfile

// Below this size a reservation is not worth a syscall.
const reserveThreshold = 1 << 15

// SizeWillBe asks the filesystem to reserve numBytes for the file's
// contents. The file's size becomes numBytes; callers that end up writing
// less should truncate. Sizes under 32 KiB are ignored.
func (g *File) SizeWillBe(numBytes int64) error {
	if numBytes <= reserveThreshold {
		return nil
	}
	return reserve(g.handle(), numBytes)
}
