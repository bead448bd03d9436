package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PreferencesKey returns the hash holding a teacher's UI preferences.
func (r *CacheKeyStruct) PreferencesKey(teacherID string) string {
	return fmt.Sprintf("prefs:%s", teacherID)
}

// MessageChannel returns the Redis PubSub channel for a teacher's incoming DMs.
func (r *CacheKeyStruct) MessageChannel(teacherID string) string {
	return fmt.Sprintf("dm:%s:inbox", teacherID)
}

var CacheKey = NewCacheKeyStruct()
