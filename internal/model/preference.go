package model

// UpdatePreferencesRequest merges keys into a teacher's UI preferences.
type UpdatePreferencesRequest struct {
	Preferences map[string]string `json:"preferences" binding:"required,max=32,dive,keys,min=1,max=64,endkeys,max=512"`
}
