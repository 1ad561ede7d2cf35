package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	board_errors "msgboard/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Prefix    string
}

// Client serves static assets out of an S3 bucket.
type Client struct {
	cfg S3Config
	s3  *s3.Client
}

func NewClient(ctx context.Context, cfg S3Config) (*Client, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{cfg: cfg, s3: s3Client}, nil
}

// Open fetches the object stored under key. Missing objects map to ErrNotFound.
func (c *Client) Open(ctx context.Context, key string) (*Object, error) {
	key, ok := cleanKey(key)
	if !ok {
		return nil, board_errors.ErrNotFound
	}
	if c.cfg.Prefix != "" {
		key = path.Join(c.cfg.Prefix, key)
	}

	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, board_errors.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	obj := &Object{Body: out.Body, Size: -1, ContentType: aws.ToString(out.ContentType)}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	if obj.ContentType == "" {
		obj.ContentType = contentTypeFor(key)
	}
	return obj, nil
}

// cleanKey rejects empty keys and any attempt to climb out of the asset root.
func cleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}
