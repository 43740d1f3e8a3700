package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey_String(t *testing.T) {
	assert.Equal(t, "quiz:session:Medicine:Cardiology:10", SessionKey{Unit: "Medicine", Module: "Cardiology", QuestionCount: 10}.String())
	assert.Equal(t, "quiz:session:Medicine:Cardiology:10:Year 2", SessionKey{Unit: "Medicine", Module: "Cardiology", Course: "Year 2", QuestionCount: 10}.String())
	assert.Equal(t, "quiz:session:A%3AB:M:1", SessionKey{Unit: "A:B", Module: "M", QuestionCount: 1}.String())
}

func TestSessionKey_IDRoundTrip(t *testing.T) {
	keys := []SessionKey{
		{Unit: "Medicine", Module: "Cardiology", QuestionCount: 10},
		{Unit: "Medicine", Module: "Cardiology", Course: "Year 2", QuestionCount: 50},
		{Unit: "a:b", Module: "100%", Course: "x%3Ay", QuestionCount: 1},
		{Unit: "Łódź", Module: "Neuro/Spine", QuestionCount: 3},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			parsed, err := ParseSessionID(key.ID())
			require.NoError(t, err)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestParseSessionID_Invalid(t *testing.T) {
	ids := []string{
		"!!!",
		SessionKey{Unit: "U", Module: "M", QuestionCount: 0}.ID(),
		"cXVpejpvdGhlcg",
		"",
	}

	for _, id := range ids {
		_, err := ParseSessionID(id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, id)
	}
}
