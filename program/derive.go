package program

import "github.com/gagliardetto/solana-go"

// Derive computes the program-owned address for a label and seed parts,
// along with the bump byte that pushed the result off the ed25519 curve.
// The derivation is a pure function: identical inputs always yield the same
// (address, bump) pair, and no private key exists for the result.
func Derive(programID solana.PublicKey, label []byte, seeds ...[]byte) (solana.PublicKey, uint8, error) {
	parts := make([][]byte, 0, len(seeds)+1)
	parts = append(parts, label)
	parts = append(parts, seeds...)

	return solana.FindProgramAddress(parts, programID)
}

// Validate re-derives an address from a record's stored seeds and bump and
// fails if it does not reproduce the observed address. Handlers call this
// before trusting anything read from a record, which defeats substitution
// of a same-shaped but unrelated account.
func Validate(programID solana.PublicKey, observed solana.PublicKey, bump uint8, label []byte, seeds ...[]byte) error {
	parts := make([][]byte, 0, len(seeds)+2)
	parts = append(parts, label)
	parts = append(parts, seeds...)
	parts = append(parts, []byte{bump})

	pda, err := solana.CreateProgramAddress(parts, programID)
	if err != nil {
		return ErrInvalidAddress
	}
	if !pda.Equals(observed) {
		return ErrInvalidAddress
	}
	return nil
}

// DeriveCampaignAddress derives the campaign record address for a maker.
func DeriveCampaignAddress(programID, maker solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive(programID, SeedCampaign, maker.Bytes())
}

// DeriveContributionAddress derives the contribution record address for a
// (campaign, contributor) pair.
func DeriveContributionAddress(programID, campaign, contributor solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive(programID, SeedContributor, campaign.Bytes(), contributor.Bytes())
}

// DeriveAssociatedTokenAddress derives the canonical token account address
// for a wallet and mint under the given token program.
func DeriveAssociatedTokenAddress(wallet, mint, tokenProgramID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			wallet.Bytes(),
			tokenProgramID.Bytes(),
			mint.Bytes(),
		},
		AssociatedTokenProgID,
	)
}
