package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// Attachment types accepted on task submissions.
var AllowedAttachmentTypes = []string{
	"application/pdf",
	"application/zip",
	"image/",
	"text/plain",
}

// MaxAttachmentSize caps a single submission attachment (10 MiB).
const MaxAttachmentSize = 10 << 20
