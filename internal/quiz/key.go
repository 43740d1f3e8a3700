package quiz

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const keyPrefix = "quiz:session"

var (
	keyEscaper   = strings.NewReplacer("%", "%25", ":", "%3A")
	keyUnescaper = strings.NewReplacer("%3A", ":", "%25", "%")
)

// SessionKey identifies a session. The same parameters always map to the same persisted record,
// so reopening a quiz with identical settings resumes it.
type SessionKey struct {
	Unit          string `json:"unit"`
	Module        string `json:"module"`
	Course        string `json:"course,omitempty"`
	QuestionCount int    `json:"question_count"`
}

// String returns the storage key: quiz:session:<unit>:<module>:<count>[:<course>].
// Colons inside names are percent-escaped.
func (k SessionKey) String() string {
	s := fmt.Sprintf("%s:%s:%s:%d", keyPrefix, keyEscaper.Replace(k.Unit), keyEscaper.Replace(k.Module), k.QuestionCount)
	if k.Course != "" {
		s += ":" + keyEscaper.Replace(k.Course)
	}
	return s
}

// ID returns a URL-safe identifier for the key.
func (k SessionKey) ID() string {
	return base64.RawURLEncoding.EncodeToString([]byte(k.String()))
}

// ParseSessionID decodes an ID produced by SessionKey.ID.
func ParseSessionID(id string) (SessionKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return SessionKey{}, fmt.Errorf("%w: %v", ErrInvalidSessionID, err)
	}

	rest, ok := strings.CutPrefix(string(raw), keyPrefix+":")
	if !ok {
		return SessionKey{}, ErrInvalidSessionID
	}

	parts := strings.Split(rest, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return SessionKey{}, ErrInvalidSessionID
	}

	count, err := strconv.Atoi(parts[2])
	if err != nil || count < 1 {
		return SessionKey{}, ErrInvalidSessionID
	}

	key := SessionKey{
		Unit:          keyUnescaper.Replace(parts[0]),
		Module:        keyUnescaper.Replace(parts[1]),
		QuestionCount: count,
	}
	if len(parts) == 4 {
		key.Course = keyUnescaper.Replace(parts[3])
	}
	if key.Unit == "" || key.Module == "" {
		return SessionKey{}, ErrInvalidSessionID
	}
	return key, nil
}
