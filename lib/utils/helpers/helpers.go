package helpers

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
)

const codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// GenerateCode random upper-case alphanumeric code
func GenerateCode(length int) string {
	sb := strings.Builder{}
	sb.Grow(length)
	letters := big.NewInt(int64(len(codeLetters)))
	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, letters)
		if err != nil {
			panic(err)
		}
		sb.WriteByte(codeLetters[idx.Int64()])
	}
	return sb.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// LikePattern "%value%" for case-insensitive search, empty for blank input.
// Wildcards typed by the user are matched literally.
func LikePattern(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
