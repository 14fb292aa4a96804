// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// Supported algorithms:
//
//   - AES-256-GCM: preferred when hardware AES support is available
//   - ChaCha20-Poly1305: fallback for systems without AES instructions
//
// Keys are either raw 32-byte keys or derived from a secret with
// DeriveKey (HKDF-SHA256). Every ciphertext carries its own random nonce
// as a prefix, so a Cipher is safe for concurrent use.
//
// Usage:
//
//	key, err := adaptive.DeriveKey(secret, "hireflow/token-store")
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, aad)
//	plaintext, err := c.Decrypt(sealed, aad)
package adaptive
