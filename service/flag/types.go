package flag

import (
	"github.com/netopslab/vmx-deploy/model"
)

type service struct{}

type FlagService interface {
	GetParsedFlags() (model.Flags, error)
}
