package program

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTarget   = uint64(5_000_000)
	testDuration = uint64(14)
	testDecimals = uint8(6)
)

func TestProcessRejectsUnknownInstruction(t *testing.T) {
	e := newEnv(t, Token, testDecimals)

	err := e.proc.Process(nil, []byte{99})
	assert.ErrorIs(t, err, ErrInvalidInstructionData)

	err = e.proc.Process(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestInitialize(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	campaign, vault := e.campaignAccounts(maker.Key)

	require.NoError(t, e.initialize(maker, campaign, vault, testTarget, testDuration))

	assert.Equal(t, e.proc.ProgramID(), campaign.Owner)
	assert.Len(t, campaign.Data, CampaignLen)

	state := e.campaignState(campaign)
	assert.Equal(t, maker.Key, state.Maker)
	assert.Equal(t, e.mint.Key, state.Mint)
	assert.Equal(t, testTarget, state.TargetAmount)
	assert.Zero(t, state.RaisedAmount)
	assert.Equal(t, testStartTime, state.StartTime)
	assert.Equal(t, testDuration, state.Duration)

	_, bump, err := DeriveCampaignAddress(e.proc.ProgramID(), maker.Key)
	require.NoError(t, err)
	assert.Equal(t, bump, state.Bump)

	// Vault was created as a token account held by the campaign.
	require.NoError(t, e.variant.CheckAccount(vault))
	assert.Equal(t, campaign.Key, e.variant.holder(vault))
	assert.Zero(t, e.balance(vault))
}

func TestInitializeRejectsTargetAtOrBelowFloor(t *testing.T) {
	// With 6 decimals the minimum raise floor is 3^6 = 729.
	e := newEnv(t, Token, testDecimals)

	maker := e.signer()
	campaign, vault := e.campaignAccounts(maker.Key)
	err := e.initialize(maker, campaign, vault, 729, testDuration)
	assert.ErrorIs(t, err, ErrBelowMinRaiseAmount)

	require.NoError(t, e.initialize(maker, campaign, vault, 730, testDuration))
}

func TestInitializeRejectsUnsignedMaker(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	maker.Signer = false
	campaign, vault := e.campaignAccounts(maker.Key)

	err := e.initialize(maker, campaign, vault, testTarget, testDuration)
	assert.ErrorIs(t, err, ErrNotSigner)
}

func TestInitializeRejectsWrongCampaignAddress(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	_, vault := e.campaignAccounts(maker.Key)
	bogus := NewSystemAccount(solana.NewWallet().PublicKey(), 0)

	err := e.initialize(maker, bogus, vault, testTarget, testDuration)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestInitializeRejectsShortPayload(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	campaign, vault := e.campaignAccounts(maker.Key)

	err := e.proc.Process(
		[]*Account{maker, e.mint, campaign, vault, e.system, e.tokenProgram, e.ataProgram},
		[]byte{DiscriminatorInitialize, 1, 2, 3},
	)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)
}

// fundraiser sets up an initialized campaign plus a funded contributor.
func fundraiser(t *testing.T, e *env) (maker, campaign, vault, contributor, contribution, contributorToken *Account) {
	t.Helper()

	maker = e.signer()
	campaign, vault = e.campaignAccounts(maker.Key)
	require.NoError(t, e.initialize(maker, campaign, vault, testTarget, testDuration))

	contributor = e.signer()
	contribution = e.contributionAccount(campaign.Key, contributor.Key)
	contributorToken = e.tokenAccount(contributor.Key, 2_000_000)
	return
}

func TestContribute(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	_ = maker

	// Cap is 10% of target.
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_000))

	assert.Equal(t, uint64(500_000), e.campaignState(campaign).RaisedAmount)
	assert.Equal(t, uint64(500_000), e.balance(vault))
	assert.Equal(t, uint64(1_500_000), e.balance(contributorToken))

	state := e.contributionState(contribution)
	assert.Equal(t, campaign.Key, state.Campaign)
	assert.Equal(t, contributor.Key, state.Contributor)
	assert.Equal(t, uint64(500_000), state.Amount)
}

func TestContributeShortBalanceLeavesRecordsUntouched(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	campaign, vault := e.campaignAccounts(maker.Key)
	require.NoError(t, e.initialize(maker, campaign, vault, testTarget, testDuration))

	contributor := e.signer()
	contribution := e.contributionAccount(campaign.Key, contributor.Key)
	contributorToken := e.tokenAccount(contributor.Key, 100)

	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 200_000)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// The failed deposit must not be acknowledged anywhere.
	assert.Zero(t, e.campaignState(campaign).RaisedAmount)
	assert.Zero(t, e.contributionState(contribution).Amount)
	assert.Zero(t, e.balance(vault))
	assert.Equal(t, uint64(100), e.balance(contributorToken))
}

func TestInitializeBadVaultKeepsCampaignAddressFree(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	campaign, vault := e.campaignAccounts(maker.Key)

	bogusVault := NewSystemAccount(solana.NewWallet().PublicKey(), 0)
	err := e.initialize(maker, campaign, bogusVault, testTarget, testDuration)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, SystemProgramID, campaign.Owner)
	assert.Empty(t, campaign.Data)

	// The address is still free, so a corrected retry goes through.
	require.NoError(t, e.initialize(maker, campaign, vault, testTarget, testDuration))
}

func TestContributeRejectsAmountAtOrBelowFloor(t *testing.T) {
	// With 6 decimals the minimum contribution floor is 1^6 = 1.
	e := newEnv(t, Token, testDecimals)
	_, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)

	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 1)
	assert.ErrorIs(t, err, ErrContributionTooSmall)
	assert.Zero(t, e.balance(vault))
}

func TestContributeRejectsAmountOverCap(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	_, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)

	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_001)
	assert.ErrorIs(t, err, ErrContributionTooBig)
}

func TestContributeEnforcesCumulativeCap(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	_, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)

	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 400_000))

	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 200_000)
	assert.ErrorIs(t, err, ErrMaximumContributionsReached)

	// Rejection leaves the running totals untouched.
	assert.Equal(t, uint64(400_000), e.campaignState(campaign).RaisedAmount)
	assert.Equal(t, uint64(400_000), e.contributionState(contribution).Amount)
	assert.Equal(t, uint64(400_000), e.balance(vault))

	// Topping up to exactly the cap is allowed.
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 100_000))
	assert.Equal(t, uint64(500_000), e.contributionState(contribution).Amount)
}

func TestContributeWindow(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	_, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)

	// Last open instant: elapsed days still below the duration.
	e.advance(int64(testDuration)*SecondsPerDay - 1)
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 100_000))

	// One second later a full duration has elapsed and the window closes.
	e.advance(1)
	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 100_000)
	assert.ErrorIs(t, err, ErrFundraiserEnded)
}

func TestContributeOpenAtStartWithZeroDuration(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker := e.signer()
	campaign, vault := e.campaignAccounts(maker.Key)
	require.NoError(t, e.initialize(maker, campaign, vault, testTarget, 0))

	contributor := e.signer()
	contribution := e.contributionAccount(campaign.Key, contributor.Key)
	contributorToken := e.tokenAccount(contributor.Key, 1_000_000)

	// The starting instant is open even when the duration is zero days.
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 100_000))

	e.advance(1)
	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 100_000)
	assert.ErrorIs(t, err, ErrFundraiserEnded)
}

func TestContributeRejectsForeignMint(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	_, campaign, _, contributor, contribution, _ := fundraiser(t, e)

	// Supply a consistent account set for a mint the campaign never agreed
	// to: the stored mint must still win.
	other := newEnv(t, Token, testDecimals)
	otherToken := other.tokenAccount(contributor.Key, 1_000_000)

	otherVaultAddr, _, err := DeriveAssociatedTokenAddress(campaign.Key, other.mint.Key, Token.ID())
	require.NoError(t, err)
	otherVault := NewSystemAccount(otherVaultAddr, 0)
	require.NoError(t, Token.InitAccount(otherVault, e.payer, other.mint.Key, campaign.Key, e.rent))

	err = e.proc.Process(
		[]*Account{contributor, other.mint, campaign, contribution, otherToken, otherVault, e.system, e.tokenProgram},
		contributeData(100_000),
	)
	assert.ErrorIs(t, err, ErrInvalidMintToRaise)
}

func TestRaisedMatchesLiveContributions(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, alice, aliceRecord, aliceToken := fundraiser(t, e)
	_ = maker

	bob := e.signer()
	bobRecord := e.contributionAccount(campaign.Key, bob.Key)
	bobToken := e.tokenAccount(bob.Key, 2_000_000)

	require.NoError(t, e.contribute(alice, campaign, aliceRecord, aliceToken, vault, 300_000))
	require.NoError(t, e.contribute(bob, campaign, bobRecord, bobToken, vault, 450_000))
	require.NoError(t, e.contribute(alice, campaign, aliceRecord, aliceToken, vault, 200_000))

	sum := e.contributionState(aliceRecord).Amount + e.contributionState(bobRecord).Amount
	assert.Equal(t, sum, e.campaignState(campaign).RaisedAmount)
	assert.Equal(t, sum, e.balance(vault))
}

// raiseToTarget pushes the vault to exactly the campaign target using as
// many contributors as the per-contributor cap requires.
func raiseToTarget(t *testing.T, e *env, campaign, vault *Account) {
	t.Helper()
	for raised := e.campaignState(campaign).RaisedAmount; raised < testTarget; raised += 500_000 {
		c := e.signer()
		record := e.contributionAccount(campaign.Key, c.Key)
		token := e.tokenAccount(c.Key, 500_000)
		require.NoError(t, e.contribute(c, campaign, record, token, vault, 500_000))
	}
}

func TestClaim(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, _, _, _ := fundraiser(t, e)
	raiseToTarget(t, e, campaign, vault)

	makerTokenAddr, _, err := DeriveAssociatedTokenAddress(maker.Key, e.mint.Key, e.variant.ID())
	require.NoError(t, err)
	makerToken := NewSystemAccount(makerTokenAddr, 0)

	require.NoError(t, e.claim(maker, campaign, vault, makerToken))

	// The maker token account is created on demand and receives the full pot.
	require.NoError(t, e.variant.CheckAccount(makerToken))
	assert.Equal(t, testTarget, e.balance(makerToken))
	assert.Zero(t, e.balance(vault))
}

func TestClaimRejectsBelowTarget(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_000))

	makerToken := e.tokenAccount(maker.Key, 0)
	err := e.claim(maker, campaign, vault, makerToken)
	assert.ErrorIs(t, err, ErrTargetNotMet)
	assert.Equal(t, uint64(500_000), e.balance(vault))
}

func TestClaimRejectsNonMaker(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	_, campaign, vault, _, _, _ := fundraiser(t, e)
	raiseToTarget(t, e, campaign, vault)

	impostor := e.signer()
	impostorToken := e.tokenAccount(impostor.Key, 0)
	err := e.claim(impostor, campaign, vault, impostorToken)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestRefund(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_000))

	makerLamportsBefore := maker.Lamports
	require.NoError(t, e.refund(contributor, maker, campaign, contribution, contributorToken, vault))

	assert.Zero(t, e.campaignState(campaign).RaisedAmount)
	assert.Equal(t, uint64(2_000_000), e.balance(contributorToken))

	// The contribution record is closed and tombstoned.
	assert.Equal(t, SystemProgramID, contribution.Owner)
	require.Len(t, contribution.Data, 1)
	assert.Equal(t, byte(0xff), contribution.Data[0])

	// The vault was emptied, so it is closed and its rent goes to the maker.
	assert.Equal(t, SystemProgramID, vault.Owner)
	assert.Nil(t, vault.Data)
	assert.Greater(t, maker.Lamports, makerLamportsBefore)
}

func TestRefundKeepsVaultOpenWhileFunded(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, alice, aliceRecord, aliceToken := fundraiser(t, e)

	bob := e.signer()
	bobRecord := e.contributionAccount(campaign.Key, bob.Key)
	bobToken := e.tokenAccount(bob.Key, 500_000)

	require.NoError(t, e.contribute(alice, campaign, aliceRecord, aliceToken, vault, 300_000))
	require.NoError(t, e.contribute(bob, campaign, bobRecord, bobToken, vault, 500_000))

	require.NoError(t, e.refund(alice, maker, campaign, aliceRecord, aliceToken, vault))

	require.NoError(t, e.variant.CheckAccount(vault))
	assert.Equal(t, uint64(500_000), e.balance(vault))
	assert.Equal(t, uint64(500_000), e.campaignState(campaign).RaisedAmount)
}

func TestRefundRejectsDoubleRefund(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, alice, aliceRecord, aliceToken := fundraiser(t, e)

	bob := e.signer()
	bobRecord := e.contributionAccount(campaign.Key, bob.Key)
	bobToken := e.tokenAccount(bob.Key, 500_000)

	require.NoError(t, e.contribute(alice, campaign, aliceRecord, aliceToken, vault, 300_000))
	require.NoError(t, e.contribute(bob, campaign, bobRecord, bobToken, vault, 500_000))

	require.NoError(t, e.refund(alice, maker, campaign, aliceRecord, aliceToken, vault))
	err := e.refund(alice, maker, campaign, aliceRecord, aliceToken, vault)
	assert.Error(t, err)
}

func TestRefundRejectsWhenTargetMet(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_000))
	raiseToTarget(t, e, campaign, vault)

	err := e.refund(contributor, maker, campaign, contribution, contributorToken, vault)
	assert.ErrorIs(t, err, ErrTargetMet)
}

func TestRefundWindow(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_000))

	// At exactly the duration boundary contributions are closed but
	// refunds are still allowed.
	e.advance(int64(testDuration) * SecondsPerDay)
	err := e.contribute(contributor, campaign, contribution, contributorToken, vault, 1_000)
	assert.ErrorIs(t, err, ErrFundraiserEnded)

	e2 := newEnv(t, Token, testDecimals)
	maker2, campaign2, vault2, c2, record2, token2 := fundraiser(t, e2)
	require.NoError(t, e2.contribute(c2, campaign2, record2, token2, vault2, 500_000))
	e2.advance(int64(testDuration)*SecondsPerDay + SecondsPerDay)
	err = e2.refund(c2, maker2, campaign2, record2, token2, vault2)
	assert.ErrorIs(t, err, ErrFundraiserEnded)

	require.NoError(t, e.refund(contributor, maker, campaign, contribution, contributorToken, vault))
}

func TestRefundRejectsForeignContributor(t *testing.T) {
	e := newEnv(t, Token, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	require.NoError(t, e.contribute(contributor, campaign, contribution, contributorToken, vault, 500_000))

	thief := e.signer()
	thiefToken := e.tokenAccount(thief.Key, 0)
	err := e.refund(thief, maker, campaign, contribution, thiefToken, vault)
	assert.Error(t, err)
	assert.Equal(t, uint64(500_000), e.balance(vault))
}

func TestLifecycleWithToken2022(t *testing.T) {
	e := newEnv(t, Token2022, testDecimals)
	maker, campaign, vault, contributor, contribution, contributorToken := fundraiser(t, e)
	raiseToTarget(t, e, campaign, vault)
	_, _, _ = contributor, contribution, contributorToken

	makerToken := e.tokenAccount(maker.Key, 0)
	require.NoError(t, e.claim(maker, campaign, vault, makerToken))
	assert.Equal(t, testTarget, e.balance(makerToken))
}
