package deployer

import "errors"

var (
	ErrInsufficientFunds      = errors.New("insufficient funds for deployment")
	ErrUserRejected           = errors.New("transaction rejected by user")
	ErrSubmissionFailed       = errors.New("transaction submission failed")
	ErrDeployTimeout          = errors.New("contract was not deployed in time")
	ErrDeployedIncorrectly    = errors.New("contract deployed with unexpected state")
	ErrMintVerificationFailed = errors.New("minted balance does not match requested amount")
)
