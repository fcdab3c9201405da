// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Language describes one supported content language.
type Language struct {
	Code       string `json:"code"`        // ISO 639-1: en, es, fr, pt
	Name       string `json:"name"`        // English, Spanish, French
	NativeName string `json:"native_name"` // English, Español, Français
	Direction  string `json:"direction"`   // ltr, rtl
	IsDefault  bool   `json:"is_default"`
}

// IsRTL returns true if the language is right-to-left.
func (l *Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// CommonLanguages provides display data for commonly used languages.
var CommonLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English", Direction: DirectionLTR},
	{Code: "es", Name: "Spanish", NativeName: "Español", Direction: DirectionLTR},
	{Code: "fr", Name: "French", NativeName: "Français", Direction: DirectionLTR},
	{Code: "pt", Name: "Portuguese", NativeName: "Português", Direction: DirectionLTR},
	{Code: "de", Name: "German", NativeName: "Deutsch", Direction: DirectionLTR},
	{Code: "it", Name: "Italian", NativeName: "Italiano", Direction: DirectionLTR},
	{Code: "ru", Name: "Russian", NativeName: "Русский", Direction: DirectionLTR},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands", Direction: DirectionLTR},
	{Code: "pl", Name: "Polish", NativeName: "Polski", Direction: DirectionLTR},
	{Code: "uk", Name: "Ukrainian", NativeName: "Українська", Direction: DirectionLTR},
	{Code: "zh", Name: "Chinese", NativeName: "中文", Direction: DirectionLTR},
	{Code: "ja", Name: "Japanese", NativeName: "日本語", Direction: DirectionLTR},
	{Code: "ar", Name: "Arabic", NativeName: "العربية", Direction: DirectionRTL},
	{Code: "he", Name: "Hebrew", NativeName: "עברית", Direction: DirectionRTL},
	{Code: "fa", Name: "Persian", NativeName: "فارسی", Direction: DirectionRTL},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe", Direction: DirectionLTR},
}

// LookupLanguage returns display data for code. Unknown codes get a
// left-to-right entry named after the code itself.
func LookupLanguage(code string) Language {
	code = strings.ToLower(code)
	for _, l := range CommonLanguages {
		if l.Code == code {
			return l
		}
	}
	return Language{Code: code, Name: code, NativeName: code, Direction: DirectionLTR}
}
