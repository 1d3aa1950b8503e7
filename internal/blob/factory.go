package blob

import (
	"context"
	"fmt"
	"os"

	blobfs "panelcore/internal/infra/blob/fs"
	blobmem "panelcore/internal/infra/blob/memory"
	blobs3 "panelcore/internal/infra/blob/s3"
)

// Open selects a blob.Store implementation using environment variables.
//
//	PANELCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	PANELCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("PANELCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("PANELCORE_BLOB_FS_ROOT")
		return blobfs.New(root)
	case DriverS3:
		return blobs3.OpenFromEnv(ctx)
	case DriverMemory:
		return blobmem.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
