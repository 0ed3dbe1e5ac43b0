package jetton

import "fmt"

// DeployState is a step of CreateJetton. States only move forward; Done and
// any failure are terminal.
type DeployState int

const (
	NotStarted DeployState = iota
	BalanceCheck
	AlreadyDeployed
	AwaitingMinterDeploy
	AwaitingJettonWalletDeploy
	VerifyMint
	Done
)

var deployStateNames = map[DeployState]string{
	NotStarted:                 "NOT_STARTED",
	BalanceCheck:               "BALANCE_CHECK",
	AlreadyDeployed:            "ALREADY_DEPLOYED",
	AwaitingMinterDeploy:       "AWAITING_MINTER_DEPLOY",
	AwaitingJettonWalletDeploy: "AWAITING_JWALLET_DEPLOY",
	VerifyMint:                 "VERIFY_MINT",
	Done:                       "DONE",
}

func (s DeployState) String() string {
	if name, ok := deployStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("DeployState(%d)", int(s))
}

// AllDeployStates lists the states in transition order.
func AllDeployStates() []DeployState {
	return []DeployState{NotStarted, BalanceCheck, AlreadyDeployed, AwaitingMinterDeploy, AwaitingJettonWalletDeploy, VerifyMint, Done}
}

// StateError is returned by CreateJetton. State is the last state reached
// before the failure.
type StateError struct {
	State DeployState
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("jetton deployment failed at %s: %v", e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
