package domain

import "time"

// SourceUploadedDocument marks records created by the upload pipeline.
const SourceUploadedDocument = "uploaded_document"

// ChunkMetadata describes where a chunk came from.
type ChunkMetadata struct {
	// Filename is the original upload name.
	Filename string `json:"filename" bson:"filename"`

	// Source is the origin tag, normally SourceUploadedDocument.
	Source string `json:"source" bson:"source"`

	// FileType is the lowercased extension without the dot.
	FileType string `json:"file_type" bson:"file_type"`

	// FileSize is the size of the uploaded bytes.
	FileSize int `json:"file_size" bson:"file_size"`

	// UploadTime is when the upload was processed.
	UploadTime time.Time `json:"upload_time" bson:"upload_time"`

	// ChunkIndex is the position of this chunk within the document.
	ChunkIndex int `json:"chunk_index" bson:"chunk_index"`

	// TotalChunks is the number of chunks the document was split into.
	TotalChunks int `json:"total_chunks" bson:"total_chunks"`

	// ChunkSize is the length of this chunk's text.
	ChunkSize int `json:"chunk_size" bson:"chunk_size"`

	// DocumentFingerprint is the fingerprint of the whole extracted text.
	DocumentFingerprint string `json:"document_fingerprint" bson:"document_fingerprint"`
}

// DisplayName returns the filename, or a short id-based label when unnamed.
func (m ChunkMetadata) DisplayName(recordID string) string {
	if m.Filename != "" {
		return m.Filename
	}
	short := recordID
	if len(short) > 8 {
		short = short[:8]
	}
	return "doc_" + short
}

// ChunkRecord is one stored chunk of an owner's document.
// Records are immutable once inserted.
type ChunkRecord struct {
	// ID is assigned by the store on insert.
	ID string

	// OwnerID is the user the record belongs to.
	OwnerID string

	// Text is the chunk content.
	Text string

	// Embedding is the chunk's vector.
	Embedding []float32

	// Metadata describes the source document.
	Metadata ChunkMetadata

	// Fingerprint is the hex SHA-256 of Text.
	Fingerprint string

	// CreatedAt is the insertion time.
	CreatedAt time.Time

	// TextLength is len(Text) in bytes.
	TextLength int
}

// DeleteSummary reports what a bulk delete removed.
type DeleteSummary struct {
	// Records is the number of deleted records.
	Records int

	// Characters is the summed TextLength of deleted records.
	Characters int
}
