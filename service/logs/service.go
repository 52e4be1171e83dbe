package awslogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

func NewService(awsconfig aws.Config) *service {
	client := cloudwatchlogs.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// EnsureLogGroup creates the log group if it does not exist and applies the
// retention policy. Retention is set even when the group already existed.
func (s *service) EnsureLogGroup(ctx context.Context, name string, retentionDays int32) error {
	output, err := s.client.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("describing log groups: %w", err)
	}

	exists := false
	for _, group := range output.LogGroups {
		if aws.ToString(group.LogGroupName) == name {
			exists = true
			break
		}
	}

	if !exists {
		_, err := s.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
			LogGroupName: aws.String(name),
		})
		if err != nil {
			var alreadyExists *types.ResourceAlreadyExistsException
			if !errors.As(err, &alreadyExists) {
				return fmt.Errorf("creating log group %s: %w", name, err)
			}
		}
	}

	_, err = s.client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(name),
		RetentionInDays: aws.Int32(retentionDays),
	})
	if err != nil {
		return fmt.Errorf("setting retention on %s: %w", name, err)
	}
	return nil
}
