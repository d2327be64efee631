// Package parser extracts the structured profile block and clean plan text
// from raw model output. The model marks a finished plan with a fixed token
// grammar; everything else is free text and passes through untouched.
package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"FouserBot/internal/models"
)

// Tokens the model is instructed to emit. All literal and case-sensitive.
const (
	ProfileMarker   = "[USER_DATA_JSON]"
	EndOfPlanMarker = "[END_OF_PLAN]"
)

// disclaimerTrigger introduces the doctor disclaimer; matched
// case-insensitively, it runs through the end of the text.
const disclaimerTrigger = "consult a doctor"

// emptyPlanPlaceholder is returned instead of an empty plan body.
const emptyPlanPlaceholder = "No plan was generated."

var errNoJSONObject = errors.New("no JSON object after profile marker")

// Result is the outcome of parsing one raw model reply.
type Result struct {
	// Profile is the parsed profile block, nil when absent or malformed.
	Profile models.Profile
	// PlanText is the reply with markers, profile block and disclaimer
	// removed. Never empty: an empty body becomes a placeholder.
	PlanText string
	// Disclaimer is the stripped doctor disclaimer, for re-attachment at
	// send time. Empty when the reply carries none.
	Disclaimer string
	// IsFinal reports whether the completion marker was present.
	IsFinal bool
	// ProfileErr is set when the profile marker was present but no valid
	// JSON object followed it. Recovered by the caller, never fatal.
	ProfileErr error
}

// Parse runs the token grammar over one raw model reply.
func Parse(raw string) Result {
	res := Result{IsFinal: strings.Contains(raw, EndOfPlanMarker)}

	text := strings.ReplaceAll(raw, EndOfPlanMarker, "")

	if start := strings.Index(text, ProfileMarker); start >= 0 {
		rest := text[start+len(ProfileMarker):]
		profile, consumed, err := decodeProfile(rest)
		if err != nil {
			res.ProfileErr = err
		} else {
			res.Profile = profile
			// Drop the marker and the matched JSON object from the body.
			text = text[:start] + rest[consumed:]
		}
	}

	if idx := strings.Index(strings.ToLower(text), disclaimerTrigger); idx >= 0 {
		// The disclaimer clause usually has a lead-in ("Please consult a
		// doctor..."), so cut from the start of the line holding the trigger.
		if nl := strings.LastIndex(text[:idx], "\n"); nl >= 0 {
			idx = nl + 1
		} else {
			idx = 0
		}
		res.Disclaimer = strings.TrimSpace(text[idx:])
		text = text[:idx]
	}

	res.PlanText = strings.TrimSpace(text)
	if res.PlanText == "" {
		res.PlanText = emptyPlanPlaceholder
	}
	return res
}

// decodeProfile decodes the first JSON object in text, which must follow
// immediately (modulo whitespace). It returns the parsed profile and how
// many bytes of text were consumed, including leading whitespace.
func decodeProfile(text string) (models.Profile, int, error) {
	skipped := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
	rest := text[skipped:]
	if !strings.HasPrefix(rest, "{") {
		return nil, 0, errNoJSONObject
	}

	dec := json.NewDecoder(strings.NewReader(rest))
	var profile models.Profile
	if err := dec.Decode(&profile); err != nil {
		return nil, 0, err
	}
	return profile, skipped + int(dec.InputOffset()), nil
}
