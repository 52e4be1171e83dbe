package model

// FunctionSpec describes a Lambda function deployment
type FunctionSpec struct {
	Name           string
	Handler        string
	Runtime        string
	RoleARN        string
	MemorySize     int32
	TimeoutSeconds int32
	Environment    string

	// Runtime environment for the handler
	SecretName     string
	OrganizationID string

	// VPC placement so all egress uses the NAT gateway's static IP
	SubnetIDs        []string
	SecurityGroupIDs []string
}

// FunctionResult holds the outcome of a function deployment
type FunctionResult struct {
	FunctionARN string
	Version     string
	Created     bool
	LayerARN    string
}

// LayerInfo holds a published layer version
type LayerInfo struct {
	ARN     string
	Version int64
}
