package awsiam

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIAM struct {
	calls    []string
	roleName string
	policies []string
	profile  string
}

func (f *fakeIAM) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	f.calls = append(f.calls, "CreateRole")
	f.roleName = aws.ToString(params.RoleName)
	return &iam.CreateRoleOutput{Role: &types.Role{RoleName: params.RoleName}}, nil
}

func (f *fakeIAM) AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	f.calls = append(f.calls, "AttachRolePolicy")
	f.policies = append(f.policies, aws.ToString(params.PolicyArn))
	return &iam.AttachRolePolicyOutput{}, nil
}

func (f *fakeIAM) CreateInstanceProfile(ctx context.Context, params *iam.CreateInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.CreateInstanceProfileOutput, error) {
	f.calls = append(f.calls, "CreateInstanceProfile")
	f.profile = aws.ToString(params.InstanceProfileName)
	return &iam.CreateInstanceProfileOutput{}, nil
}

func (f *fakeIAM) AddRoleToInstanceProfile(ctx context.Context, params *iam.AddRoleToInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.AddRoleToInstanceProfileOutput, error) {
	f.calls = append(f.calls, "AddRoleToInstanceProfile")
	return &iam.AddRoleToInstanceProfileOutput{}, nil
}

func (f *fakeIAM) GetInstanceProfile(ctx context.Context, params *iam.GetInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.GetInstanceProfileOutput, error) {
	f.calls = append(f.calls, "GetInstanceProfile")
	return &iam.GetInstanceProfileOutput{
		InstanceProfile: &types.InstanceProfile{
			Arn: aws.String("arn:aws:iam::123456789012:instance-profile/" + aws.ToString(params.InstanceProfileName)),
		},
	}, nil
}

func TestEnsureInstanceProfile(t *testing.T) {
	fake := &fakeIAM{}
	svc := &service{client: fake}

	arn, err := svc.EnsureInstanceProfile(context.Background(), "Branch-42")
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:iam::123456789012:instance-profile/MerakiVMXProfile-Branch-42", arn)
	assert.Equal(t, "MerakiVMXRole-Branch-42", fake.roleName)
	assert.Equal(t, "MerakiVMXProfile-Branch-42", fake.profile)

	// Both managed policies land on the role
	assert.Equal(t, []string{
		"arn:aws:iam::aws:policy/CloudWatchAgentServerPolicy",
		"arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore",
	}, fake.policies)

	// The role exists before the profile, and the profile before the role is added
	assert.Equal(t, "CreateRole", fake.calls[0])
	require.Contains(t, fake.calls, "CreateInstanceProfile")
	assert.Less(t,
		indexOf(fake.calls, "CreateInstanceProfile"),
		indexOf(fake.calls, "AddRoleToInstanceProfile"),
	)
}

func indexOf(calls []string, name string) int {
	for i, call := range calls {
		if call == name {
			return i
		}
	}
	return -1
}
