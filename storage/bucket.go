package storage

import (
	"os"
	"path"
	"strings"

	"facetag/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Bucket describes where images are kept: a directory on disk or a prefix in a S3 bucket
type Bucket struct {
	Name        string // S3 bucket name, empty for disk storage
	StorageType string
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string
	Endpoint    string
	AuthDetails string // In case of S3 bucket - "key:secret"
}

func BucketFromConfig(cfg *config.Config) *Bucket {
	b := &Bucket{
		Name:        cfg.S3Bucket,
		StorageType: cfg.StorageType,
		Path:        cfg.StoragePath,
		Region:      cfg.S3Region,
		Endpoint:    cfg.S3Endpoint,
	}
	if cfg.S3AccessKey != "" {
		b.AuthDetails = cfg.S3AccessKey + ":" + cfg.S3SecretKey
	}
	return b
}

// Create pre-creates the folders on disk
func (b *Bucket) Create(folders ...string) error {
	if b.StorageType != config.StorageTypeFile {
		return nil
	}
	for _, folder := range folders {
		if err := os.MkdirAll(path.Join(b.Path, folder), 0777); err != nil {
			return err
		}
	}
	return nil
}

// GetRemotePath returns the object key for a relative path
func (b *Bucket) GetRemotePath(p string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return p
	}
	return prefix + "/" + p
}

// CreateSVC creates a S3 client. Without AuthDetails the default AWS credential chain is used.
func (b *Bucket) CreateSVC() (*s3.S3, error) {
	awsConfig := aws.NewConfig().WithRegion(b.Region)
	if b.Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	if key, secret, found := strings.Cut(b.AuthDetails, ":"); found {
		awsConfig = awsConfig.WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}
