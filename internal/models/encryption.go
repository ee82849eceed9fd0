package models

// Parameters for at-rest encryption of stored conversation content.
const (
	// NonceSize is the GCM nonce length in bytes.
	NonceSize = 12
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// Iterations is the PBKDF2 iteration count for key derivation.
	Iterations = 100000
)
