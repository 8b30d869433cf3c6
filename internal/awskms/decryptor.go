// Package awskms wraps the AWS KMS Decrypt operation behind a small client
// suitable for injection into the retrieval pipeline.
package awskms

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// ClientAPI defines the interface for the KMS operations used by Decryptor
// This allows for mocking in tests
type ClientAPI interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Config holds the settings for building the real KMS client.
type Config struct {
	// Region is the fallback region, applied only when the ambient AWS
	// credential chain does not resolve one
	Region string

	// Endpoint is an optional custom endpoint for LocalStack or testing
	Endpoint string

	// AccessKeyID and SecretAccessKey are optional static credentials for
	// LocalStack or testing; the default chain is used when they are empty
	AccessKeyID     string
	SecretAccessKey string
}

// Decryptor decrypts ciphertext with AWS KMS.
type Decryptor struct {
	client ClientAPI
	region string
}

// Option is a functional option for configuring a Decryptor.
type Option func(*Decryptor)

// WithClient sets a custom KMS client (for testing).
func WithClient(client ClientAPI) Option {
	return func(d *Decryptor) {
		d.client = client
	}
}

// New creates a Decryptor. Unless a client is injected via options, the AWS
// configuration is loaded from the ambient default chain with cfg.Region as
// the fallback region.
func New(ctx context.Context, cfg Config, opts ...Option) (*Decryptor, error) {
	d := &Decryptor{region: cfg.Region}

	for _, opt := range opts {
		opt(d)
	}

	if d.client == nil {
		var configOpts []func(*config.LoadOptions) error
		if cfg.Region != "" {
			configOpts = append(configOpts, config.WithDefaultRegion(cfg.Region))
		}

		// Use static credentials if provided (for LocalStack/testing)
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			configOpts = append(configOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			))
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var clientOpts []func(*kms.Options)
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			clientOpts = append(clientOpts, func(o *kms.Options) {
				o.BaseEndpoint = &endpoint
			})
		}
		d.client = kms.NewFromConfig(awsCfg, clientOpts...)
	}

	return d, nil
}

// Decrypt decrypts ciphertext under the named key and returns the plaintext
// bytes. A response without a plaintext field is an error.
func (d *Decryptor) Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error) {
	out, err := d.client.Decrypt(ctx, &kms.DecryptInput{
		KeyId:          aws.String(keyID),
		CiphertextBlob: ciphertext,
	})
	if err != nil {
		return nil, err
	}
	if out.Plaintext == nil {
		return nil, errors.New("decrypt response contained no plaintext")
	}
	return out.Plaintext, nil
}
