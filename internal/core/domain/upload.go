package domain

// ChunkStatus is the fate of one chunk in an upload.
type ChunkStatus string

// Possible chunk outcomes.
const (
	// ChunkStored means the chunk was embedded and inserted.
	ChunkStored ChunkStatus = "stored"

	// ChunkDuplicate means the owner already had an identical chunk.
	ChunkDuplicate ChunkStatus = "duplicate"

	// ChunkFailed means embedding or storage failed for the chunk.
	ChunkFailed ChunkStatus = "failed"
)

// ChunkOutcome records what happened to one chunk.
type ChunkOutcome struct {
	// Index is the chunk's position in the document.
	Index int

	// Status is the outcome.
	Status ChunkStatus

	// RecordID is set when Status is ChunkStored.
	RecordID string

	// Err is set when Status is ChunkFailed.
	Err error
}

// UploadResult summarises a successful upload.
type UploadResult struct {
	// Filename is the uploaded file's name.
	Filename string

	// TextLength is the byte length of the extracted text.
	TextLength int

	// ChunksCreated is the number of records stored.
	ChunksCreated int

	// Outcomes has one entry per chunk, in order.
	Outcomes []ChunkOutcome
}

// Count returns how many outcomes have the given status.
func (r *UploadResult) Count(status ChunkStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
