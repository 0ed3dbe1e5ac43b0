package tvm

import (
	"fmt"
)

// ExitCode is the compute phase result of a transaction or a get-method run.
// Reference lists:
// - TON documentation: https://docs.ton.org/v3/documentation/tvm/tvm-exit-codes
// - Token contract sources: https://github.com/ton-blockchain/token-contract
type ExitCode int32

// IsSuccess reports a clean termination. Code 1 is an alternative success code
// reserved by TVM.
func (c ExitCode) IsSuccess() bool {
	return c == ExitCodeSuccess || c == ExitCodeSuccessVariant
}

const (
	/// TVM exit codes

	ExitCodeSuccess                   ExitCode = 0   // Standard successful execution exit code.
	ExitCodeSuccessVariant            ExitCode = 1   // Alternative successful execution exit code.
	ExitCodeStackUnderflow            ExitCode = 2   // Stack underflow.
	ExitCodeStackOverflow             ExitCode = 3   // Stack overflow.
	ExitCodeIntegerOverflow           ExitCode = 4   // Integer overflow.
	ExitCodeIntegerOutOfExpectedRange ExitCode = 5   // Range check error.
	ExitCodeInvalidOpcode             ExitCode = 6   // Invalid TVM opcode.
	ExitCodeTypeCheckError            ExitCode = 7   // Type check error.
	ExitCodeCellOverflow              ExitCode = 8   // Cell overflow.
	ExitCodeCellUnderflow             ExitCode = 9   // Cell underflow.
	ExitCodeDictionaryError           ExitCode = 10  // Dictionary error.
	ExitCodeUnknownError              ExitCode = 11  // Thrown for unknown get methods among others.
	ExitCodeFatalError                ExitCode = 12  // Fatal error.
	ExitCodeOutOfGasError             ExitCode = 13  // Out of gas error.
	ExitCodeOutOfGasErrorVariant      ExitCode = -14 // Same as 13. Negative, so that it cannot be faked.
	ExitCodeNotEnoughToncoin          ExitCode = 37  // Not enough Toncoin.
	ExitCodeCannotProcessAMessage     ExitCode = 40  // Cannot process a message.
	ExitCodeAccountStateSizeExceeded  ExitCode = 50  // Account state size exceeded limits.

	/// Jetton minter and wallet exit codes

	ExitCodeJettonNotAdmin             ExitCode = 73  // Minter: sender is not the admin.
	ExitCodeJettonNotOwner             ExitCode = 74  // Minter: sender is not the jetton wallet of the owner.
	ExitCodeJettonUnauthorizedTransfer ExitCode = 705 // Wallet: transfer requested by a non-owner.
	ExitCodeJettonNotEnoughJettons     ExitCode = 706 // Wallet: balance is lower than the requested amount.
	ExitCodeJettonUnauthorizedIncoming ExitCode = 707 // Wallet: internal transfer from an unknown sender.
	ExitCodeJettonNotEnoughTon         ExitCode = 709 // Wallet: attached value cannot cover forwarding.
	ExitCodeJettonUnknownOp            ExitCode = 0xffff
)

// Describe returns a human-readable description of the exit code.
func (c ExitCode) Describe() string {
	switch c {
	case ExitCodeSuccess, ExitCodeSuccessVariant:
		return "Success"
	case ExitCodeStackUnderflow:
		return "Stack underflow"
	case ExitCodeStackOverflow:
		return "Stack overflow"
	case ExitCodeIntegerOverflow:
		return "Integer overflow"
	case ExitCodeIntegerOutOfExpectedRange:
		return "Integer out of expected range"
	case ExitCodeInvalidOpcode:
		return "Invalid opcode"
	case ExitCodeTypeCheckError:
		return "Type check error"
	case ExitCodeCellOverflow:
		return "Cell overflow"
	case ExitCodeCellUnderflow:
		return "Cell underflow"
	case ExitCodeDictionaryError:
		return "Dictionary error"
	case ExitCodeUnknownError:
		return "Unknown error or missing get method"
	case ExitCodeFatalError:
		return "Fatal error"
	case ExitCodeOutOfGasError, ExitCodeOutOfGasErrorVariant:
		return "Out of gas error"
	case ExitCodeNotEnoughToncoin:
		return "Not enough Toncoin"
	case ExitCodeCannotProcessAMessage:
		return "Cannot process a message"
	case ExitCodeAccountStateSizeExceeded:
		return "Account state size exceeded limits"
	case ExitCodeJettonNotAdmin:
		return "Jetton minter: sender is not admin"
	case ExitCodeJettonNotOwner:
		return "Jetton minter: sender is not owner wallet"
	case ExitCodeJettonUnauthorizedTransfer:
		return "Jetton wallet: unauthorized transfer"
	case ExitCodeJettonNotEnoughJettons:
		return "Jetton wallet: not enough jettons"
	case ExitCodeJettonUnauthorizedIncoming:
		return "Jetton wallet: unauthorized incoming transfer"
	case ExitCodeJettonNotEnoughTon:
		return "Jetton wallet: not enough TON"
	case ExitCodeJettonUnknownOp:
		return "Jetton: unknown op"
	default:
		return fmt.Sprintf("Non-standard exit code: %d", c)
	}
}
