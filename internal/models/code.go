// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package models

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz"

var codePattern = regexp.MustCompile(`^[a-z]{3}-[a-z]{3}-[a-z]{3}$`)

// GenerateCode returns a fresh shareable meeting code such as "kqz-mwa-tno".
func GenerateCode() (string, error) {
	buf := make([]byte, 0, 11)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < 9; i++ {
		if i == 3 || i == 6 {
			buf = append(buf, '-')
		}
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf = append(buf, codeAlphabet[n.Int64()])
	}
	return string(buf), nil
}

// ValidCode reports whether s has the xxx-xxx-xxx lowercase format.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
