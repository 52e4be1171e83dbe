package awsssm

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/netopslab/vmx-deploy/model"
)

// api is the subset of the SSM client used by this service
type api interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

type service struct {
	client api
}

type SSMService interface {
	StoreAuthToken(ctx context.Context, vmxName, networkID string, token model.AuthToken) (string, error)
}
