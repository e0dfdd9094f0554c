package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"sqs-utils/pkg/resource"
)

// NewSqsClient creates the process-lifetime SQS client. A custom endpoint
// (LocalStack) is honored when configured.
func NewSqsClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := resource.GetString("app.cloud.aws-endpoint")
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = awssdk.String(endpoint)
		}
	}), nil
}
