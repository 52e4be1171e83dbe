package awslogs

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogs struct {
	groups         []string
	created        []string
	retentionCalls []*cloudwatchlogs.PutRetentionPolicyInput
	createErr      error
}

func (f *fakeLogs) DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	out := &cloudwatchlogs.DescribeLogGroupsOutput{}
	for _, g := range f.groups {
		out.LogGroups = append(out.LogGroups, types.LogGroup{LogGroupName: aws.String(g)})
	}
	return out, nil
}

func (f *fakeLogs) CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, aws.ToString(params.LogGroupName))
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeLogs) PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	f.retentionCalls = append(f.retentionCalls, params)
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func TestEnsureLogGroup_CreatesWhenAbsent(t *testing.T) {
	fake := &fakeLogs{}
	svc := &service{client: fake}

	err := svc.EnsureLogGroup(context.Background(), "/aws/lambda/meraki-automation", 30)
	require.NoError(t, err)

	assert.Equal(t, []string{"/aws/lambda/meraki-automation"}, fake.created)
	require.Len(t, fake.retentionCalls, 1)
	assert.Equal(t, int32(30), aws.ToInt32(fake.retentionCalls[0].RetentionInDays))
}

func TestEnsureLogGroup_SkipsCreateWhenPresent(t *testing.T) {
	fake := &fakeLogs{groups: []string{"/aws/lambda/meraki-automation"}}
	svc := &service{client: fake}

	err := svc.EnsureLogGroup(context.Background(), "/aws/lambda/meraki-automation", 30)
	require.NoError(t, err)

	assert.Empty(t, fake.created)
	// Retention still applied to the existing group
	require.Len(t, fake.retentionCalls, 1)
}

func TestEnsureLogGroup_ToleratesAlreadyExists(t *testing.T) {
	fake := &fakeLogs{createErr: &types.ResourceAlreadyExistsException{Message: aws.String("exists")}}
	svc := &service{client: fake}

	err := svc.EnsureLogGroup(context.Background(), "/aws/lambda/meraki-automation", 30)
	require.NoError(t, err)
	require.Len(t, fake.retentionCalls, 1)
}
