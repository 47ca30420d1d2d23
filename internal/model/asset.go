package model

// Asset identifies a fungible token type tracked by the vault.
type Asset string

// IsZero reports whether the asset identity is unset.
func (a Asset) IsZero() bool { return a == "" }

// CoreAssets groups the three token types a pod is built around, plus its
// own share token. Manager sweeps must never touch any of these.
type CoreAssets struct {
	Underlying Asset // deposit token
	Ticket     Asset // yield-bearing receipt from the external source
	Reward     Asset // secondary reward token
	Share      Asset // the pod's own share token
}

// Contains reports whether target is one of the core assets.
func (c CoreAssets) Contains(target Asset) bool {
	return target == c.Underlying || target == c.Ticket || target == c.Reward || target == c.Share
}
