package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"sqs-utils/pkg/resource"
)

// LoadConfig builds the AWS configuration from application properties.
func LoadConfig(ctx context.Context) (awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(resource.GetString("app.cloud.aws-region")),
	}

	// Check if custom credentials are provided
	if accessKey := resource.GetString("app.cloud.aws-access-key-id"); accessKey != "" {
		if secretKey := resource.GetString("app.cloud.aws-secret-access-key"); secretKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
		}
	}
	// If no custom credentials are provided, the SDK uses its default
	// credential chain (environment variables, IAM roles, etc.)

	return config.LoadDefaultConfig(ctx, opts...)
}
