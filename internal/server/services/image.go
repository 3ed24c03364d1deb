package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/logging"
	sc "github.com/dmitrijs2005/levelup/internal/server/config"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	clock = time.Now
)

// ImageUpload is handed to the client, which PUTs the file to URL before
// ExpiresAt.
type ImageUpload struct {
	Image     *models.ProductImage `json:"image"`
	URL       string               `json:"url"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

// ImageService issues presigned S3 URLs for product images. Image bytes
// never pass through the server.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, l logging.Logger) *ImageService {
	return &ImageService{db: db, repomanager: m, config: cfg, logger: l}
}

// ProductImageKey returns a fresh object key under the product's prefix.
func ProductImageKey(productID int64, t time.Time) string {
	return fmt.Sprintf("products/%d/%04d/%02d/%v", productID, t.Year(), int(t.Month()), uuid.New())
}

func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload reserves a storage key for the product, records it as the
// product's current image and returns a presigned PUT URL for it.
func (s *ImageService) PresignUpload(ctx context.Context, productID int64) (*ImageUpload, error) {
	if _, err := s.repomanager.Products(s.db).GetByID(ctx, productID); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 client: %v", common.ErrorInternal, err)
	}

	issued := clock()
	bucket := s.config.S3Bucket
	key := ProductImageKey(productID, issued)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("%w: presign put: %v", common.ErrorInternal, err)
	}

	var img *models.ProductImage
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)
		var err error
		if img, err = repo.AddImage(ctx, productID, key); err != nil {
			return err
		}
		return repo.SetImage(ctx, productID, key)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "image upload issued", "product_id", productID, "key", key)
	return &ImageUpload{Image: img, URL: req.URL, ExpiresAt: issued.Add(presignExpiry)}, nil
}

// PresignDownload returns a presigned GET URL for the product's current
// image. A product without one yields common.ErrorNotFound.
func (s *ImageService) PresignDownload(ctx context.Context, productID int64) (string, error) {
	p, err := s.repomanager.Products(s.db).GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if p.Image == "" {
		return "", fmt.Errorf("%w: product %d has no image", common.ErrorNotFound, productID)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: s3 client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := p.Image
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("%w: presign get: %v", common.ErrorInternal, err)
	}
	return req.URL, nil
}
