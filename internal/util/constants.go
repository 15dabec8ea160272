package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeText        = "text/plain"
	MimePDF         = "application/pdf"
	MimeZip         = "application/zip"
	MimeOctetStream = "application/octet-stream"
)

var (
	// AllowedSubmissionMimeTypes 作业附件允许的 MIME 前缀
	AllowedSubmissionMimeTypes = []string{MimePDF, MimeImage, MimeText, MimeZip, MimeOctetStream}
)
