package program

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// SPL token layouts shared by both variants.
const (
	MintLen         = 82
	TokenAccountLen = 165

	mintDecimalsOffset        = 44
	mintInitializedOffset     = 45
	tokenAccountMintOffset    = 0
	tokenAccountOwnerOffset   = 32
	tokenAccountAmountOffset  = 64
	tokenAccountStateOffset   = 108
	tokenAccountInitialized   = 1
	accountTypeOffset         = 165
	accountTypeMint           = 0x01
	accountTypeTokenAccount   = 0x02
)

// TokenProgram models one of the two interchangeable asset-transfer
// variants. Both expose the same capability surface; they differ only in
// program id and in whether account buffers may carry trailing extension
// data flagged by a type byte past the base layout. The variant for an
// operation is selected by inspecting the owner of the asset's mint.
type TokenProgram struct {
	id         solana.PublicKey
	extensions bool
}

var (
	// Token is the legacy asset-transfer variant.
	Token = &TokenProgram{id: TokenProgramID}
	// Token2022 is the extended asset-transfer variant.
	Token2022 = &TokenProgram{id: Token2022ProgramID, extensions: true}
)

// TokenProgramFor selects the variant whose program owns the given account,
// rejecting any other owner.
func TokenProgramFor(owner solana.PublicKey) (*TokenProgram, error) {
	switch {
	case owner.Equals(TokenProgramID):
		return Token, nil
	case owner.Equals(Token2022ProgramID):
		return Token2022, nil
	default:
		return nil, ErrInvalidAccountOwner
	}
}

// ID returns the variant's program id.
func (t *TokenProgram) ID() solana.PublicKey { return t.id }

// CheckMint fails unless the account is a valid mint under this variant.
func (t *TokenProgram) CheckMint(acct *Account) error {
	return t.checkLayout(acct, MintLen, accountTypeMint)
}

// CheckAccount fails unless the account is a valid token account under this
// variant.
func (t *TokenProgram) CheckAccount(acct *Account) error {
	return t.checkLayout(acct, TokenAccountLen, accountTypeTokenAccount)
}

func (t *TokenProgram) checkLayout(acct *Account, baseLen int, accountType byte) error {
	if !acct.Owner.Equals(t.id) {
		return ErrInvalidAccountOwner
	}
	if len(acct.Data) == baseLen {
		return nil
	}
	// Extended buffers carry a type byte past the base token-account layout.
	if t.extensions && len(acct.Data) > accountTypeOffset && acct.Data[accountTypeOffset] == accountType {
		return nil
	}
	return ErrInvalidAccountData
}

// Decimals reads the decimal precision off a mint account.
func (t *TokenProgram) Decimals(mint *Account) (uint8, error) {
	if err := t.CheckMint(mint); err != nil {
		return 0, err
	}
	return mint.Data[mintDecimalsOffset], nil
}

// Balance reads the current amount held by a token account.
func (t *TokenProgram) Balance(acct *Account) (uint64, error) {
	if err := t.CheckAccount(acct); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(acct.Data[tokenAccountAmountOffset : tokenAccountAmountOffset+8]), nil
}

func (t *TokenProgram) setBalance(acct *Account, amount uint64) {
	binary.LittleEndian.PutUint64(acct.Data[tokenAccountAmountOffset:tokenAccountAmountOffset+8], amount)
}

// InitMint turns an empty, system-owned account into a mint of this variant.
func (t *TokenProgram) InitMint(acct, payer *Account, decimals uint8, rent Rent) error {
	if err := createAccount(payer, acct, MintLen, t.id, rent); err != nil {
		return err
	}
	acct.Data[mintDecimalsOffset] = decimals
	acct.Data[mintInitializedOffset] = 1
	return nil
}

// InitAccount turns an empty, system-owned account into a token account of
// this variant holding the given mint for the given owner, rent-funded by
// the payer.
func (t *TokenProgram) InitAccount(acct, payer *Account, mint, owner solana.PublicKey, rent Rent) error {
	if err := createAccount(payer, acct, TokenAccountLen, t.id, rent); err != nil {
		return err
	}
	copy(acct.Data[tokenAccountMintOffset:tokenAccountMintOffset+32], mint.Bytes())
	copy(acct.Data[tokenAccountOwnerOffset:tokenAccountOwnerOffset+32], owner.Bytes())
	acct.Data[tokenAccountStateOffset] = tokenAccountInitialized
	return nil
}

// holder returns the wallet recorded as owner of a token account.
func (t *TokenProgram) holder(acct *Account) solana.PublicKey {
	return solana.PublicKeyFromBytes(acct.Data[tokenAccountOwnerOffset : tokenAccountOwnerOffset+32])
}

// Transfer moves amount from one token account to another. The authority
// must be the wallet recorded on the source account and must prove itself:
// either it signed the transaction, or it is a program-derived address
// whose seeds are supplied by the invoking program.
func (t *TokenProgram) Transfer(from, to *Account, amount uint64, auth Authority) error {
	if err := t.CheckAccount(from); err != nil {
		return err
	}
	if err := t.CheckAccount(to); err != nil {
		return err
	}
	if err := auth.verify(); err != nil {
		return err
	}
	if !t.holder(from).Equals(auth.Account.Key) {
		return ErrInvalidAccountOwner
	}

	balance, _ := t.Balance(from)
	if balance < amount {
		return ErrInvalidAmount
	}
	t.setBalance(from, balance-amount)

	toBalance, _ := t.Balance(to)
	t.setBalance(to, toBalance+amount)
	return nil
}

// Close destroys a drained token account, sending its rent lamports to the
// destination. The authority rules match Transfer.
func (t *TokenProgram) Close(acct, destination *Account, auth Authority) error {
	if err := t.CheckAccount(acct); err != nil {
		return err
	}
	if err := auth.verify(); err != nil {
		return err
	}
	if !t.holder(acct).Equals(auth.Account.Key) {
		return ErrInvalidAccountOwner
	}

	balance, _ := t.Balance(acct)
	if balance != 0 {
		return ErrInvalidAmount
	}

	destination.Lamports += acct.Lamports
	acct.Lamports = 0
	acct.Data = nil
	acct.Owner = SystemProgramID
	return nil
}

// Authority proves the right to move funds out of a token account. A plain
// wallet proves itself by having signed the transaction. A program-derived
// authority (the campaign record) has no key; it proves itself by seeds
// that re-derive its address under the given program.
type Authority struct {
	Account *Account
	Seeds   [][]byte
	Program solana.PublicKey
}

// SignedBy builds an authority backed by a transaction signer.
func SignedBy(acct *Account) Authority {
	return Authority{Account: acct}
}

// DerivedFrom builds an authority backed by program-derived seeds.
func DerivedFrom(acct *Account, programID solana.PublicKey, seeds ...[]byte) Authority {
	return Authority{Account: acct, Seeds: seeds, Program: programID}
}

func (a Authority) verify() error {
	if len(a.Seeds) == 0 {
		return CheckSigner(a.Account)
	}
	pda, err := solana.CreateProgramAddress(a.Seeds, a.Program)
	if err != nil {
		return ErrInvalidAddress
	}
	if !pda.Equals(a.Account.Key) {
		return ErrInvalidAddress
	}
	return nil
}
