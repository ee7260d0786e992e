package program

import "github.com/gagliardetto/solana-go"

// Account is the view of a single ledger account as seen by one invocation.
// The host supplies untrusted references; nothing in here may be relied on
// until the relevant capability checks have passed.
type Account struct {
	Key      solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
	Signer   bool
	Writable bool
}

// NewSystemAccount returns an empty, system-owned account, the state every
// record and token account starts from before the program creates it.
func NewSystemAccount(key solana.PublicKey, lamports uint64) *Account {
	return &Account{
		Key:      key,
		Owner:    SystemProgramID,
		Lamports: lamports,
		Writable: true,
	}
}

// CheckSigner fails unless the account authorized the current call.
func CheckSigner(acct *Account) error {
	if !acct.Signer {
		return ErrNotSigner
	}
	return nil
}

// CheckOwnedBy fails unless the account is owned by the given program. A
// same-shaped account spoofed by another program fails here before any of
// its data is read.
func CheckOwnedBy(acct *Account, owner solana.PublicKey) error {
	if !acct.Owner.Equals(owner) {
		return ErrInvalidAccountOwner
	}
	return nil
}

// CheckAssociatedTokenAccount fails unless the account is the canonical
// associated token account for (owner, mint) under the given token variant
// and is owned by that variant's program.
func CheckAssociatedTokenAccount(acct *Account, owner, mint solana.PublicKey, variant *TokenProgram) error {
	expected, _, err := DeriveAssociatedTokenAddress(owner, mint, variant.ID())
	if err != nil {
		return ErrInvalidAddress
	}
	if !acct.Key.Equals(expected) {
		return ErrInvalidAddress
	}
	return variant.CheckAccount(acct)
}
