// Package types provides well-known contract addresses.
package types

// Precompiled contract addresses.
// These occupy the low end of the address space on every EVM network.
var (
	// EcrecoverAddr is the ECDSA public key recovery precompile.
	EcrecoverAddr = MustAddressFromHex("0x0000000000000000000000000000000000000001")

	// Sha256Addr is the SHA-256 hash precompile.
	Sha256Addr = MustAddressFromHex("0x0000000000000000000000000000000000000002")

	// Ripemd160Addr is the RIPEMD-160 hash precompile.
	Ripemd160Addr = MustAddressFromHex("0x0000000000000000000000000000000000000003")

	// IdentityAddr is the identity (datacopy) precompile.
	IdentityAddr = MustAddressFromHex("0x0000000000000000000000000000000000000004")

	// ModexpAddr is the big integer modular exponentiation precompile.
	ModexpAddr = MustAddressFromHex("0x0000000000000000000000000000000000000005")

	// Bn256AddAddr is the BN256 elliptic curve addition precompile.
	Bn256AddAddr = MustAddressFromHex("0x0000000000000000000000000000000000000006")

	// Bn256MulAddr is the BN256 elliptic curve scalar multiplication precompile.
	Bn256MulAddr = MustAddressFromHex("0x0000000000000000000000000000000000000007")

	// Bn256PairingAddr is the BN256 pairing check precompile.
	Bn256PairingAddr = MustAddressFromHex("0x0000000000000000000000000000000000000008")

	// Blake2FAddr is the BLAKE2b F compression function precompile.
	Blake2FAddr = MustAddressFromHex("0x0000000000000000000000000000000000000009")
)
