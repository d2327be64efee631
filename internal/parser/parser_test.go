package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FouserBot/internal/models"
)

func TestParseFinalPlanRoundTrip(t *testing.T) {
	profile := models.Profile{"name": "Sam", "age": float64(30), "weight": float64(70)}
	body := "1. Warm up for 10 minutes\n2. Squats 3x10\n3. Push ups 3x12\n4. Plank 3x60s\n5. Lunges 3x10\n6. Rows 3x10\n7. Stretch\n8. Cardio 20m\n9. Rest day\n10. Repeat weekly"

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	text := ProfileMarker + " " + string(raw) + "\n" + body + "\nPlease consult a doctor before starting.\n" + EndOfPlanMarker

	res := Parse(text)

	assert.True(t, res.IsFinal)
	assert.NoError(t, res.ProfileErr)
	assert.Equal(t, profile, res.Profile)
	assert.Equal(t, body, res.PlanText)
	assert.Equal(t, "Please consult a doctor before starting.", res.Disclaimer)
	assert.NotContains(t, res.PlanText, ProfileMarker)
	assert.NotContains(t, res.PlanText, EndOfPlanMarker)
	assert.NotContains(t, res.PlanText, "consult a doctor")
}

func TestParseWithoutCompletionMarker(t *testing.T) {
	text := "A calorie is a unit of energy. Anything else?"

	res := Parse(text)

	assert.False(t, res.IsFinal)
	assert.Nil(t, res.Profile)
	assert.Equal(t, text, res.PlanText)
	assert.Empty(t, res.Disclaimer)
}

func TestParseProfileBlockWithoutMarkerIsNotFinal(t *testing.T) {
	// Structured-looking data without the completion marker must not flip
	// IsFinal; persistence is gated on the marker alone.
	text := ProfileMarker + ` {"name": "Ann"}` + "\nHere is a draft."

	res := Parse(text)

	assert.False(t, res.IsFinal)
	assert.Equal(t, models.Profile{"name": "Ann"}, res.Profile)
}

func TestParseMalformedProfileBlock(t *testing.T) {
	text := ProfileMarker + ` {"name": "Sam", ` + "\nsome plan\n" + EndOfPlanMarker

	res := Parse(text)

	assert.True(t, res.IsFinal)
	assert.Nil(t, res.Profile)
	assert.Error(t, res.ProfileErr)
}

func TestParseMarkerWithoutJSONObject(t *testing.T) {
	text := ProfileMarker + " not json at all\n" + EndOfPlanMarker

	res := Parse(text)

	assert.True(t, res.IsFinal)
	assert.Nil(t, res.Profile)
	assert.ErrorIs(t, res.ProfileErr, errNoJSONObject)
}

func TestParseNestedProfileObject(t *testing.T) {
	text := ProfileMarker + ` {"name": "Sam", "prefs": {"unit": "kg"}}` + "\nplan body\n" + EndOfPlanMarker

	res := Parse(text)

	require.NoError(t, res.ProfileErr)
	assert.Equal(t, "plan body", res.PlanText)
	assert.Equal(t, map[string]any{"unit": "kg"}, res.Profile["prefs"])
}

func TestParseEmptyBodyReturnsPlaceholder(t *testing.T) {
	text := ProfileMarker + ` {"name": "Sam"}` + "\n" + EndOfPlanMarker

	res := Parse(text)

	assert.Equal(t, "No plan was generated.", res.PlanText)
}

func TestParseDisclaimerCaseInsensitive(t *testing.T) {
	text := "plan body\nPlease CONSULT A DOCTOR first.\n" + EndOfPlanMarker

	res := Parse(text)

	assert.Equal(t, "plan body", res.PlanText)
	assert.Equal(t, "Please CONSULT A DOCTOR first.", res.Disclaimer)
}
