package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PromptHash returns a stable digest of everything sent to the model for req.
func PromptHash(req Request) string {
	var b strings.Builder
	b.WriteString("system: ")
	b.WriteString(req.System)
	for _, m := range req.History {
		b.WriteString("\n\n")
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	b.WriteString("\n\nuser: ")
	b.WriteString(req.Prompt)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
