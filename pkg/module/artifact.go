package module

import (
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/Azure/aace/pkg/config"
)

// ArtifactManager oss bucket manager, stages project bundles for the job
// platform to fetch by signed url
type ArtifactManager struct {
	bucket *oss.Bucket
}

func NewArtifactManager() (*ArtifactManager, error) {
	client, err := oss.New(config.ConfigGlobal.OssEndpoint, config.ConfigGlobal.AccessKeyId,
		config.ConfigGlobal.AccessKeySecret, oss.SecurityToken(config.ConfigGlobal.AccessKeyToken))
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(config.ConfigGlobal.Bucket)
	if err != nil {
		return nil, err
	}
	return &ArtifactManager{bucket: bucket}, nil
}

// UploadFile upload file to oss
func (a *ArtifactManager) UploadFile(ossKey, localFile string) error {
	return a.bucket.PutObjectFromFile(ossKey, localFile)
}

// SignUrl presigned GET url the job platform can fetch the object with
func (a *ArtifactManager) SignUrl(ossKey string, expires time.Duration) (string, error) {
	return a.bucket.SignURL(ossKey, oss.HTTPGet, int64(expires.Seconds()))
}
