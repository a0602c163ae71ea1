package speech

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoices(t *testing.T) {
	out := []byte(`Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-us           --/M      English_(America)  gmw/en-US            (en 10)
 5  de              --/M      German             gmw/de
broken line
`)

	voices := parseVoices(out)

	require.Len(t, voices, 3)
	assert.Equal(t, Voice{Index: 0, Name: "Afrikaans", ID: "af"}, voices[0])
	assert.Equal(t, Voice{Index: 1, Name: "English (America)", ID: "en-us"}, voices[1])
	assert.Equal(t, Voice{Index: 2, Name: "German", ID: "de"}, voices[2])
}

func TestAmplitude(t *testing.T) {
	assert.Equal(t, 0, amplitude(-1))
	assert.Equal(t, 50, amplitude(0.5))
	assert.Equal(t, 100, amplitude(1))
	assert.Equal(t, 200, amplitude(5))
}

func TestCommandEngineMissingBinary(t *testing.T) {
	e := NewCommandEngine("howler-test-no-such-speech-binary")

	err := e.Say(context.Background(), "hello", Params{Rate: 170, Volume: 1})
	assert.Error(t, err)

	_, err = e.Voices(context.Background())
	assert.Error(t, err)
}
