package models

// Profile is the open-schema user profile: field name -> primitive value.
// The model always emits the complete, final profile, so a Profile is a
// full replacement row, never a partial update to be merged.
type Profile map[string]any

// Well-known profile fields. Anything else passes through opaquely.
const (
	FieldName   = "name"
	FieldAge    = "age"
	FieldGender = "gender"
	FieldHeight = "height"
	FieldWeight = "weight"
	FieldGoal   = "goal"
)

// Name returns the display name, or fallback when the field is absent or
// not a string.
func (p Profile) Name(fallback string) string {
	if name, ok := p[FieldName].(string); ok && name != "" {
		return name
	}
	return fallback
}
