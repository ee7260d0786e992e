package program

import "github.com/gagliardetto/solana-go"

// Program IDs
const (
	// Fundraiser Program ID (dari declare_id di program Solana)
	FundraiserProgramID = "961YdRKb41e47DoC8JM973Xp52dVQ1NQ3P4bUm82eT8D"
)

// PDA Seeds
var (
	SeedCampaign    = []byte("campaign")
	SeedContributor = []byte("contributor")
)

// Limits
const (
	// Floor bases, raised to the asset's decimal precision
	MinRaiseAmount        = 3
	MinContributionAmount = 1

	// Per-contributor cap as a fraction of the target
	MaxContributionBPS = 1_000
	MaxBPS             = 10_000

	SecondsPerDay = 86_400
)

// System Program IDs
var (
	SystemProgramID       = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	TokenProgramID        = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ProgramID    = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

// scaledFloor raises a floor base to the asset's decimal precision, so a
// 6-decimal asset's floor differs from a 9-decimal one.
func scaledFloor(base uint64, decimals uint8) uint64 {
	floor := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		floor *= base
	}
	return floor
}
