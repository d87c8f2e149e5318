package models

import "strings"

// ShortIDLength is the number of commit id characters shown in the log
const ShortIDLength = 8

// RevisionRange is the (base, head) pair whose difference is analyzed
type RevisionRange struct {
	Base string
	Head string
}

// String returns the range in compare notation
func (r RevisionRange) String() string {
	return r.Base + "..." + r.Head
}

// Commit holds commit information as returned by the repository host
type Commit struct {
	ID      string
	Message string
}

// ChangedFile is a file touched between base and head
type ChangedFile struct {
	Path string
}

// Comparison is the result of comparing two revisions
type Comparison struct {
	Commits []Commit
	Files   []ChangedFile
}

// MessageMode selects how much of a commit message is rendered
type MessageMode string

const (
	MessageFirstLine MessageMode = "first-line"
	MessageFull      MessageMode = "full"
)

// Valid reports whether m is a known mode
func (m MessageMode) Valid() bool {
	return m == MessageFirstLine || m == MessageFull
}

// CommitRecord is the display form of a commit
type CommitRecord struct {
	ID        string
	ShortID   string
	FirstLine string
}

// NewCommitRecord derives the display form of c
func NewCommitRecord(c Commit, mode MessageMode) CommitRecord {
	shortID := c.ID
	if len(shortID) > ShortIDLength {
		shortID = shortID[:ShortIDLength]
	}

	return CommitRecord{
		ID:        c.ID,
		ShortID:   shortID,
		FirstLine: summarize(c.Message, mode),
	}
}

func summarize(message string, mode MessageMode) string {
	lines := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")

	if mode != MessageFull {
		return strings.TrimSpace(lines[0])
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// Classification holds the follow-up actions a change requires
type Classification struct {
	NeedsDependencyInstall     bool
	NeedsAssetBuild            bool
	NeedsPackageManagerInstall bool
	NeedsDatabaseMigration     bool
}

// Any reports whether at least one follow-up action is required
func (c Classification) Any() bool {
	return c.NeedsDependencyInstall || c.NeedsAssetBuild || c.NeedsPackageManagerInstall || c.NeedsDatabaseMigration
}

// Merge returns the OR-combination of c and other
func (c Classification) Merge(other Classification) Classification {
	return Classification{
		NeedsDependencyInstall:     c.NeedsDependencyInstall || other.NeedsDependencyInstall,
		NeedsAssetBuild:            c.NeedsAssetBuild || other.NeedsAssetBuild,
		NeedsPackageManagerInstall: c.NeedsPackageManagerInstall || other.NeedsPackageManagerInstall,
		NeedsDatabaseMigration:     c.NeedsDatabaseMigration || other.NeedsDatabaseMigration,
	}
}
