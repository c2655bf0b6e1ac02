package domain

import "github.com/ethereum/go-ethereum/common"

// Deployment tracks a contract deployed by the deploy scripts, to make them
// idempotent and to let clients look up contracts by name.
type Deployment struct {
	Name     string
	Contract ContractKind
	Address  common.Address
	Deployer common.Address
	Args     []string
	TxHash   common.Hash
	Tags     []string
	Network  string
}

// HasSameArgs returns whether the deployment was made with the given
// constructor arguments.
func (d Deployment) HasSameArgs(args []string) bool {
	if len(d.Args) != len(args) {
		return false
	}
	for i := range args {
		if d.Args[i] != args[i] {
			return false
		}
	}
	return true
}
