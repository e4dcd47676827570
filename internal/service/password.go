package service

import "crypto/rand"

// generatedPasswordLength is the length of passwords mailed to new users.
const generatedPasswordLength = 7

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"

// generateRandomPassword returns a random password of n characters drawn
// from passwordAlphabet using crypto/rand. Modulo bias over a 69-char
// alphabet is negligible for throwaway first-login passwords.
func generateRandomPassword(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf)
}
