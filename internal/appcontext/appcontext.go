package appcontext

import (
	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	// MediaRoot is the local directory holding uploads and export artifacts.
	MediaRoot string

	// GCSClient and GCSBucketName switch upload storage to GCS when set.
	GCSClient     *storage.Client
	GCSBucketName string
}
