// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialogue

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/responder"
)

// recordingReplier remembers what it was asked.
type recordingReplier struct {
	calls []string
	seen  []model.Profile
}

func (r *recordingReplier) Respond(text string, profile model.Profile) (responder.Category, string) {
	r.calls = append(r.calls, text)
	r.seen = append(r.seen, profile)
	return responder.Question, "reply:" + text
}

func newSelector(seed uint64) *responder.Selector {
	return responder.New(responder.Builtin(), rand.New(rand.NewPCG(seed, seed)))
}

// =============================================================================
// PHASE TESTS
// =============================================================================

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "awaiting_name", AwaitingName.String())
	assert.Equal(t, "awaiting_gender", AwaitingGender.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "unknown", Phase(7).String())
}

func TestPhaseProgressionIsLinear(t *testing.T) {
	m := New(&recordingReplier{})
	require.Equal(t, AwaitingName, m.Phase())

	want := []Phase{AwaitingGender, Open, Open, Open}
	for i, w := range want {
		m.HandleTurn("msg")
		assert.Equal(t, w, m.Phase(), "after message %d", i+1)
	}
}

// =============================================================================
// TURN TESTS
// =============================================================================

func TestOpening(t *testing.T) {
	m := New(&recordingReplier{})
	assert.Equal(t, OpeningPrompt, m.Opening())
	assert.Contains(t, m.Opening(), "お名前")
}

func TestNameCapture(t *testing.T) {
	rep := &recordingReplier{}
	m := New(rep)

	reply := m.HandleTurn("太郎")
	assert.Equal(t, "太郎さん、はじめまして！性別を教えていただけますか？（男性／女性／その他）", reply)
	assert.Equal(t, "太郎", m.Profile().Name)
	assert.Empty(t, m.Profile().GenderLabel)
	assert.Empty(t, rep.calls, "onboarding must not consult the selector")
}

func TestGenderCapture(t *testing.T) {
	m := New(&recordingReplier{})
	m.HandleTurn("太郎")

	reply := m.HandleTurn("男性")
	assert.Equal(t, "太郎さん、ありがとうございます！何でも気軽に話しかけてくださいね。", reply)
	assert.Equal(t, model.Profile{Name: "太郎", GenderLabel: "男性"}, m.Profile())
}

func TestGenderLabelIsStoredVerbatim(t *testing.T) {
	m := New(&recordingReplier{})
	m.HandleTurn("Alex")
	m.HandleTurn("ひみつ")

	assert.Equal(t, "ひみつ", m.Profile().GenderLabel)
	assert.Equal(t, Open, m.Phase())
}

func TestOpenDelegatesWithProfile(t *testing.T) {
	rep := &recordingReplier{}
	m := New(rep)
	m.HandleTurn("花子")
	m.HandleTurn("女性")

	out := m.Handle("元気？")
	assert.Equal(t, "reply:元気？", out.Reply)
	assert.True(t, out.Classified)
	assert.Equal(t, responder.Question, out.Category)
	assert.Equal(t, Open, out.From)
	assert.Equal(t, Open, out.To)
	require.Len(t, rep.seen, 1)
	assert.Equal(t, model.Profile{Name: "花子", GenderLabel: "女性"}, rep.seen[0])

	// Profile fields are written once.
	m.HandleTurn("次郎")
	assert.Equal(t, "花子", m.Profile().Name)
}

func TestOutcomeReportsTransitions(t *testing.T) {
	m := New(&recordingReplier{})

	out := m.Handle("太郎")
	assert.Equal(t, AwaitingName, out.From)
	assert.Equal(t, AwaitingGender, out.To)
	assert.False(t, out.Classified)

	out = m.Handle("男性")
	assert.Equal(t, AwaitingGender, out.From)
	assert.Equal(t, Open, out.To)
	assert.False(t, out.Classified)
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestScenarioWithBuiltinSelector(t *testing.T) {
	m := New(newSelector(5))
	m.HandleTurn("太郎")
	m.HandleTurn("男性")

	greeting := responder.Builtin().Templates(responder.Greeting)
	fallback := responder.Builtin().Templates(responder.Default)

	tests := []struct {
		text string
		pool []string
		cat  responder.Category
	}{
		{"こんにちは", greeting, responder.Greeting},
		{"こんにちは？", greeting, responder.Greeting},
		{"xyz123", fallback, responder.Default},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			out := m.Handle(tt.text)
			assert.Equal(t, tt.cat, out.Category)
			require.True(t, strings.HasPrefix(out.Reply, "太郎さん、"), out.Reply)
			assert.Contains(t, tt.pool, strings.TrimPrefix(out.Reply, "太郎さん、"))
		})
	}
}

// =============================================================================
// HONORIFIC TESTS
// =============================================================================

func TestHonorificsSuffix(t *testing.T) {
	h := Honorifics{
		Default: "さん",
		ByLabel: map[string]string{"男性": "くん", "Female": "ちゃん"},
	}

	assert.Equal(t, "くん", h.Suffix("男性"))
	assert.Equal(t, "くん", h.Suffix("  男性 "))
	assert.Equal(t, "ちゃん", h.Suffix("female"))
	assert.Equal(t, "さん", h.Suffix("その他"))
	assert.Equal(t, DefaultHonorific, Honorifics{}.Suffix("男性"))
}

func TestHonorificsSuffixIsDeterministic(t *testing.T) {
	h := Honorifics{
		Default: "さん",
		ByLabel: map[string]string{"Male": "くん", "male": "さま", "MALE ": "殿"},
	}

	for i := 0; i < 200; i++ {
		require.Equal(t, "さま", h.Suffix("male"))
		require.Equal(t, "くん", h.Suffix("Male"))
		require.Equal(t, "殿", h.Suffix("mAlE"))
	}
}

func TestDefaultHonorificsAreUniform(t *testing.T) {
	h := DefaultHonorifics()
	for _, label := range []string{"男性", "女性", "その他", "anything"} {
		assert.Equal(t, "さん", h.Suffix(label), label)
	}
}

func TestWithHonorifics(t *testing.T) {
	m := New(&recordingReplier{}, WithHonorifics(Honorifics{
		Default: "さん",
		ByLabel: map[string]string{"男性": "くん"},
	}))
	m.HandleTurn("太郎")

	assert.Equal(t, "太郎くん、ありがとうございます！何でも気軽に話しかけてくださいね。", m.HandleTurn("男性"))
}

// =============================================================================
// LOGGING TESTS
// =============================================================================

func TestLogsPhaseTransitions(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := New(&recordingReplier{}, WithLogger(zap.New(core)))

	m.HandleTurn("太郎")
	m.HandleTurn("男性")
	m.HandleTurn("こんにちは")

	transitions := logs.FilterMessage("phase transition").All()
	require.Len(t, transitions, 2)
	assert.Equal(t, "awaiting_name", transitions[0].ContextMap()["from"])
	assert.Equal(t, "open", transitions[1].ContextMap()["to"])
	assert.Equal(t, 1, logs.FilterMessage("classified message").Len())
}
