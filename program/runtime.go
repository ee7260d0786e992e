package program

import "github.com/gagliardetto/solana-go"

// Clock is the wall-clock oracle. The core never reads time from anywhere
// else; each handler samples it at most once per invocation.
type Clock interface {
	Now() int64
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() int64

func (f ClockFunc) Now() int64 { return f() }

// Rent is the account-creation funding oracle: the lamports an account of a
// given size must hold to persist.
type Rent interface {
	MinimumBalance(size uint64) uint64
}

// RentFunc adapts a plain function to the Rent interface.
type RentFunc func(size uint64) uint64

func (f RentFunc) MinimumBalance(size uint64) uint64 { return f(size) }

// createAccount turns an empty, system-owned account into a fresh account
// of the given size owned by owner, rent-funded by the payer. The payer
// must have signed the transaction.
func createAccount(payer, acct *Account, size int, owner solana.PublicKey, rent Rent) error {
	if !acct.Owner.Equals(SystemProgramID) || len(acct.Data) != 0 {
		return ErrInvalidAccountData
	}
	if err := CheckSigner(payer); err != nil {
		return err
	}

	lamports := rent.MinimumBalance(uint64(size))
	if payer.Lamports < lamports {
		return ErrInvalidAmount
	}
	payer.Lamports -= lamports
	acct.Lamports += lamports
	acct.Owner = owner
	acct.Data = make([]byte, size)
	return nil
}

// closeRecord destroys a program record: the first byte is overwritten with
// a tombstone, the buffer shrinks to a single byte and the rent lamports go
// to the destination. A closed record can never pass the exact-size load
// checks again.
func closeRecord(acct, destination *Account) {
	if len(acct.Data) > 0 {
		acct.Data[0] = 0xff
		acct.Data = acct.Data[:1]
	}
	destination.Lamports += acct.Lamports
	acct.Lamports = 0
	acct.Owner = SystemProgramID
}
