package model

// AccountInfo represents the AWS account identity of the caller
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}
