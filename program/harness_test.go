package program

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

const testStartTime int64 = 1_700_000_000

// env drives full instructions against an in-memory ledger view: funded
// keypairs, a mint of the chosen variant, and an adjustable clock.
type env struct {
	t       *testing.T
	proc    *Processor
	rent    Rent
	now     int64
	variant *TokenProgram
	mint    *Account
	payer   *Account

	system       *Account
	tokenProgram *Account
	ataProgram   *Account
}

func newEnv(t *testing.T, variant *TokenProgram, decimals uint8) *env {
	t.Helper()

	e := &env{
		t:       t,
		rent:    RentFunc(func(size uint64) uint64 { return 890_880 + 6_960*size }),
		now:     testStartTime,
		variant: variant,

		system:       &Account{Key: SystemProgramID},
		tokenProgram: &Account{Key: variant.ID()},
		ataProgram:   &Account{Key: AssociatedTokenProgID},
	}
	e.proc = NewProcessor(
		solana.MustPublicKeyFromBase58(FundraiserProgramID),
		ClockFunc(func() int64 { return e.now }),
		e.rent,
	)

	e.payer = e.signer()
	e.mint = NewSystemAccount(solana.NewWallet().PublicKey(), 0)
	require.NoError(t, variant.InitMint(e.mint, e.payer, decimals, e.rent))

	return e
}

// signer returns a funded keypair account that signed the transaction.
func (e *env) signer() *Account {
	return &Account{
		Key:      solana.NewWallet().PublicKey(),
		Owner:    SystemProgramID,
		Lamports: 10_000_000_000,
		Signer:   true,
		Writable: true,
	}
}

func (e *env) advance(seconds int64) { e.now += seconds }

// tokenAccount creates the canonical token account for (owner, mint) with
// the given starting balance.
func (e *env) tokenAccount(owner solana.PublicKey, balance uint64) *Account {
	e.t.Helper()

	addr, _, err := DeriveAssociatedTokenAddress(owner, e.mint.Key, e.variant.ID())
	require.NoError(e.t, err)

	acct := NewSystemAccount(addr, 0)
	require.NoError(e.t, e.variant.InitAccount(acct, e.payer, e.mint.Key, owner, e.rent))
	e.variant.setBalance(acct, balance)
	return acct
}

// campaignAccounts returns fresh, uncreated campaign and vault accounts at
// their derived addresses for a maker.
func (e *env) campaignAccounts(maker solana.PublicKey) (*Account, *Account) {
	e.t.Helper()

	campaignAddr, _, err := DeriveCampaignAddress(e.proc.ProgramID(), maker)
	require.NoError(e.t, err)
	vaultAddr, _, err := DeriveAssociatedTokenAddress(campaignAddr, e.mint.Key, e.variant.ID())
	require.NoError(e.t, err)

	return NewSystemAccount(campaignAddr, 0), NewSystemAccount(vaultAddr, 0)
}

// contributionAccount returns a fresh, uncreated contribution account at
// its derived address.
func (e *env) contributionAccount(campaign, contributor solana.PublicKey) *Account {
	e.t.Helper()

	addr, _, err := DeriveContributionAddress(e.proc.ProgramID(), campaign, contributor)
	require.NoError(e.t, err)
	return NewSystemAccount(addr, 0)
}

func initializeData(target, durationDays uint64) []byte {
	data := make([]byte, 17)
	data[0] = DiscriminatorInitialize
	binary.LittleEndian.PutUint64(data[1:9], target)
	binary.LittleEndian.PutUint64(data[9:17], durationDays)
	return data
}

func contributeData(amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = DiscriminatorContribute
	binary.LittleEndian.PutUint64(data[1:9], amount)
	return data
}

func (e *env) initialize(maker, campaign, vault *Account, target, durationDays uint64) error {
	return e.proc.Process(
		[]*Account{maker, e.mint, campaign, vault, e.system, e.tokenProgram, e.ataProgram},
		initializeData(target, durationDays),
	)
}

func (e *env) contribute(contributor, campaign, contribution, contributorToken, vault *Account, amount uint64) error {
	return e.proc.Process(
		[]*Account{contributor, e.mint, campaign, contribution, contributorToken, vault, e.system, e.tokenProgram},
		contributeData(amount),
	)
}

func (e *env) refund(contributor, maker, campaign, contribution, contributorToken, vault *Account) error {
	return e.proc.Process(
		[]*Account{contributor, maker, e.mint, campaign, contribution, contributorToken, vault, e.system, e.tokenProgram},
		[]byte{DiscriminatorRefund},
	)
}

func (e *env) claim(maker, campaign, vault, makerToken *Account) error {
	return e.proc.Process(
		[]*Account{maker, e.mint, campaign, vault, makerToken, e.system, e.tokenProgram, e.ataProgram},
		[]byte{DiscriminatorClaim},
	)
}

func (e *env) campaignState(campaign *Account) *Campaign {
	e.t.Helper()
	c, err := DecodeCampaign(campaign.Data)
	require.NoError(e.t, err)
	return c
}

func (e *env) contributionState(contribution *Account) *Contribution {
	e.t.Helper()
	c, err := DecodeContribution(contribution.Data)
	require.NoError(e.t, err)
	return c
}

func (e *env) balance(acct *Account) uint64 {
	e.t.Helper()
	b, err := e.variant.Balance(acct)
	require.NoError(e.t, err)
	return b
}
