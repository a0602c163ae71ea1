package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEngine struct {
	voices     []Voice
	voiceErr   error
	sayErr     error
	said       []string
	params     []Params
	voiceCalls int
}

func (f *fakeEngine) Say(_ context.Context, text string, p Params) error {
	f.said = append(f.said, text)
	f.params = append(f.params, p)
	return f.sayErr
}

func (f *fakeEngine) Voices(_ context.Context) ([]Voice, error) {
	f.voiceCalls++
	return f.voices, f.voiceErr
}

var testVoices = []Voice{
	{Index: 0, Name: "English", ID: "en"},
	{Index: 1, Name: "German", ID: "de"},
}

func newTestNotifier(e Engine) *Notifier {
	return NewNotifier(e, Params{Rate: 170, Volume: 1.0, Voice: "en-us"}, zap.NewNop().Sugar())
}

func TestSpeakUsesExplicitParams(t *testing.T) {
	e := &fakeEngine{voices: testVoices}
	n := newTestNotifier(e)

	require.NoError(t, n.Speak(context.Background(), "Hello", 120, 0.5, 1))

	require.Len(t, e.params, 1)
	assert.Equal(t, Params{Rate: 120, Volume: 0.5, Voice: "de"}, e.params[0])
	assert.Equal(t, []string{"Hello"}, e.said)
}

func TestSpeakOutOfRangeVoiceKeepsDefault(t *testing.T) {
	for _, idx := range []int{-1, 2, 99} {
		e := &fakeEngine{voices: testVoices}
		n := newTestNotifier(e)

		require.NoError(t, n.Speak(context.Background(), "Hello", 170, 1, idx))

		assert.Equal(t, "en-us", e.params[0].Voice, "index %d", idx)
	}
}

func TestSpeakWithoutVoiceIndexSkipsVoiceList(t *testing.T) {
	e := &fakeEngine{voices: testVoices}
	n := newTestNotifier(e)

	require.NoError(t, n.Speak(context.Background(), "Hello", 170, 1, -1))
	require.NoError(t, n.Announce(context.Background(), "Hello"))

	assert.Zero(t, e.voiceCalls)
	assert.Equal(t, "en-us", e.params[0].Voice)

	require.NoError(t, n.Speak(context.Background(), "Hello", 170, 1, 0))
	assert.Equal(t, 1, e.voiceCalls)
}

func TestSpeakDoesNotLeakSettingsBetweenCalls(t *testing.T) {
	e := &fakeEngine{voices: testVoices}
	n := newTestNotifier(e)

	require.NoError(t, n.Speak(context.Background(), "manual", 90, 0.2, 1))
	require.NoError(t, n.Announce(context.Background(), "scheduled"))

	assert.Equal(t, Params{Rate: 170, Volume: 1.0, Voice: "en-us"}, e.params[1])
}

func TestSpeakReportsEngineFailure(t *testing.T) {
	e := &fakeEngine{voices: testVoices, sayErr: errors.New("no audio device")}
	n := newTestNotifier(e)

	err := n.Speak(context.Background(), "Hello", 170, 1, 0)

	assert.EqualError(t, err, "no audio device")
}

func TestSpeakRejectsEmptyMessage(t *testing.T) {
	e := &fakeEngine{voices: testVoices}
	n := newTestNotifier(e)

	assert.Error(t, n.Speak(context.Background(), "", 170, 1, 0))
	assert.Error(t, n.Announce(context.Background(), ""))
	assert.Empty(t, e.said)
}

func TestSpeakWhenVoiceListFails(t *testing.T) {
	e := &fakeEngine{voiceErr: errors.New("boom")}
	n := newTestNotifier(e)

	require.NoError(t, n.Speak(context.Background(), "Hello", 170, 1, 0))

	assert.Equal(t, "en-us", e.params[0].Voice)
}

func TestListVoicesFallback(t *testing.T) {
	tests := []struct {
		name string
		e    *fakeEngine
		want []Voice
	}{
		{"ok", &fakeEngine{voices: testVoices}, testVoices},
		{"error", &fakeEngine{voiceErr: errors.New("missing binary")}, []Voice{DefaultVoice}},
		{"empty", &fakeEngine{}, []Voice{DefaultVoice}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newTestNotifier(tt.e).ListVoices(context.Background()))
		})
	}
}
