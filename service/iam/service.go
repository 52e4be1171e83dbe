package awsiam

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

const ec2TrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ec2.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

var instancePolicies = []string{
	"arn:aws:iam::aws:policy/CloudWatchAgentServerPolicy",
	"arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore",
}

const profileWaitTimeout = time.Minute

func NewService(awsconfig aws.Config) *service {
	client := iam.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// EnsureInstanceProfile creates the vMX instance role, attaches the CloudWatch
// and SSM managed policies and returns the instance profile ARN
func (s *service) EnsureInstanceProfile(ctx context.Context, vmxName string) (string, error) {
	roleName := fmt.Sprintf("MerakiVMXRole-%s", vmxName)

	_, err := s.client.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(ec2TrustPolicy),
		Description:              aws.String("IAM role for Meraki vMX instance"),
	})
	if err != nil {
		return "", fmt.Errorf("creating role %s: %w", roleName, err)
	}

	for _, policyARN := range instancePolicies {
		_, err := s.client.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(roleName),
			PolicyArn: aws.String(policyARN),
		})
		if err != nil {
			return "", fmt.Errorf("attaching policy %s: %w", policyARN, err)
		}
	}

	profileName := fmt.Sprintf("MerakiVMXProfile-%s", vmxName)
	_, err = s.client.CreateInstanceProfile(ctx, &iam.CreateInstanceProfileInput{
		InstanceProfileName: aws.String(profileName),
	})
	if err != nil {
		return "", fmt.Errorf("creating instance profile %s: %w", profileName, err)
	}

	_, err = s.client.AddRoleToInstanceProfile(ctx, &iam.AddRoleToInstanceProfileInput{
		InstanceProfileName: aws.String(profileName),
		RoleName:            aws.String(roleName),
	})
	if err != nil {
		return "", fmt.Errorf("adding role to instance profile: %w", err)
	}

	getInput := &iam.GetInstanceProfileInput{InstanceProfileName: aws.String(profileName)}

	waiter := iam.NewInstanceProfileExistsWaiter(s.client)
	if err := waiter.Wait(ctx, getInput, profileWaitTimeout); err != nil {
		return "", err
	}

	output, err := s.client.GetInstanceProfile(ctx, getInput)
	if err != nil {
		return "", err
	}

	return aws.ToString(output.InstanceProfile.Arn), nil
}
