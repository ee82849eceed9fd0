package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// DecryptEvent recovers the plaintext JSON of an encrypted Lark webhook
// delivery. The platform derives the AES-256 key as SHA-256 of the UTF-8
// encrypt key, prepends a 16-byte IV to the CBC ciphertext, and pads the
// plaintext with PKCS#7.
func DecryptEvent(encryptedB64, encryptKey string) ([]byte, error) {
	if encryptKey == "" {
		return nil, fmt.Errorf("encrypt key is not configured")
	}

	data, err := base64.StdEncoding.DecodeString(encryptedB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	if len(data) < aes.BlockSize {
		return nil, fmt.Errorf("ciphertext too short: %d bytes", len(data))
	}

	key := sha256.Sum256([]byte(encryptKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv, ciphertext := data[:aes.BlockSize], data[aes.BlockSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext is not a multiple of the block size")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = stripPKCS7(plaintext)
	if err != nil {
		return nil, err
	}

	if !json.Valid(plaintext) {
		return nil, fmt.Errorf("decrypted payload is not valid JSON")
	}
	return plaintext, nil
}

// stripPKCS7 removes PKCS#7 padding. A bad padding byte almost always means
// the wrong key was used.
func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-pad], nil
}
