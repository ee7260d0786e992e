package program

// Error is a typed program failure. Every fallible step surfaces one of the
// sentinel values below; the code is stable and mirrors the on-chain custom
// error numbering, so clients can map RPC failures back to a description.
type Error struct {
	code uint32
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable numeric code of the error.
func (e *Error) Code() uint32 { return e.code }

// Business and authorization errors, codes 0-11.
var (
	ErrNotSigner                   = &Error{0, "Account is not a signer"}
	ErrInvalidAddress              = &Error{1, "Account address is invalid"}
	ErrTargetNotMet                = &Error{2, "The amount to raise has not been met"}
	ErrTargetMet                   = &Error{3, "The amount to raise has been achieved"}
	ErrContributionTooBig          = &Error{4, "The contribution is too big"}
	ErrContributionTooSmall        = &Error{5, "The contribution is too small"}
	ErrMaximumContributionsReached = &Error{6, "The maximum amount to contribute has been reached"}
	ErrFundraiserNotEnded          = &Error{7, "The fundraiser has not ended yet"}
	ErrFundraiserEnded             = &Error{8, "The fundraiser has ended"}
	ErrInvalidAmount               = &Error{9, "Invalid amount"}
	ErrInvalidMintToRaise          = &Error{10, "Mint to raise does not match"}
	ErrBelowMinRaiseAmount         = &Error{11, "The amount to raise is below the minimum required"}
)

// Account and instruction validation errors, codes 100+.
var (
	ErrInvalidAccountOwner    = &Error{100, "Account owner is invalid"}
	ErrInvalidAccountData     = &Error{101, "Account data is invalid"}
	ErrInvalidInstructionData = &Error{102, "Instruction data is invalid"}
	ErrNotEnoughAccountKeys   = &Error{103, "Not enough account keys"}
	ErrIncorrectProgramID     = &Error{104, "Incorrect program ID"}
)

var errorsByCode = map[uint32]*Error{}

func init() {
	for _, e := range []*Error{
		ErrNotSigner, ErrInvalidAddress, ErrTargetNotMet, ErrTargetMet,
		ErrContributionTooBig, ErrContributionTooSmall,
		ErrMaximumContributionsReached, ErrFundraiserNotEnded,
		ErrFundraiserEnded, ErrInvalidAmount, ErrInvalidMintToRaise,
		ErrBelowMinRaiseAmount, ErrInvalidAccountOwner, ErrInvalidAccountData,
		ErrInvalidInstructionData, ErrNotEnoughAccountKeys,
		ErrIncorrectProgramID,
	} {
		errorsByCode[e.code] = e
	}
}

// ErrorForCode resolves a numeric code back to its sentinel error.
func ErrorForCode(code uint32) (*Error, bool) {
	e, ok := errorsByCode[code]
	return e, ok
}
