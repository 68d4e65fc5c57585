package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const finalJSON = `{
  "greeting": "Thanks for sharing",
  "insights": [{"title": "Fiber", "detail": "Your gut wants more plants", "icon": "🌱"}],
  "curiosityHook": "There is one more pattern",
  "encouragement": "Small changes add up",
  "improvementPotential": "Moderate"
}`

func TestDecodeFinalAnalysis(t *testing.T) {
	a, err := DecodeFinalAnalysis("Here you go:\n```json\n" + finalJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Thanks for sharing", a.Greeting)
	require.Len(t, a.Insights, 1)
	assert.Equal(t, "Fiber", a.Insights[0].Title)
	assert.Equal(t, "moderate", a.ImprovementPotential)
}

func TestDecodeFinalAnalysis_DefaultsPotential(t *testing.T) {
	a, err := DecodeFinalAnalysis(`{"greeting":"g","insights":[{"title":"t","detail":"d"}],"curiosityHook":"c","encouragement":"e"}`)
	require.NoError(t, err)
	assert.Equal(t, "high", a.ImprovementPotential)
}

func TestDecodeFinalAnalysis_Malformed(t *testing.T) {
	inputs := map[string]string{
		"prose":          "I think your gut is fine.",
		"empty":          "",
		"truncated":      `{"greeting": "hi", "insights": [`,
		"missing fields": `{"greeting": "hi"}`,
		"empty insights": `{"greeting":"g","insights":[],"curiosityHook":"c","encouragement":"e"}`,
		"insight shape":  `{"greeting":"g","insights":[{"title":""}],"curiosityHook":"c","encouragement":"e"}`,
		"wrong type":     `{"greeting": 5}`,
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeFinalAnalysis(raw)
			assert.ErrorIs(t, err, ErrMalformedAnalysis)
		})
	}
}

func TestDecodeReportAnalysis(t *testing.T) {
	raw := `{
	  "microbiomeSnapshot": "Balanced but low diversity",
	  "goalConnection": "Energy follows digestion",
	  "keyFindings": [{"type": "positive", "title": "Good sleep", "description": "7+ hours"}],
	  "topRecommendations": ["Add legumes"],
	  "foodsToAdd": ["Kefir", "Oats"],
	  "foodsToAvoid": ["Soda"],
	  "personalizedTips": "Eat slowly"
	}`
	a, err := DecodeReportAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kefir", "Oats"}, a.FoodsToAdd)
	assert.Len(t, a.KeyFindings, 1)

	_, err = DecodeReportAnalysis(`{"microbiomeSnapshot":"x","goalConnection":"y","topRecommendations":["a"],"foodsToAdd":[""],"foodsToAvoid":["b"],"personalizedTips":"t"}`)
	assert.ErrorIs(t, err, ErrMalformedAnalysis)
}
