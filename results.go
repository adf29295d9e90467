// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reverso

// TextResult holds the result of a text or HTML translation.
type TextResult struct {
	// Text is the translated text.
	Text string
	// Truncated is true if the input was too long to translate
	// entirely.
	Truncated bool
	// WordsLeft is the number of words that were not translated.
	WordsLeft int
}

func (r *TextResult) String() string {
	return r.Text
}

// A Language is a language supported by the Reverso API, identified by
// the code the API reports for it.
type Language struct {
	Code string
}

func (l Language) String() string {
	return l.Code
}

// AppInfo identifies the application using this library. It is sent
// in the User-Agent header.
type AppInfo struct {
	Name    string
	Version string
}

type textResponse struct {
	TranslatedText string `json:"TranslatedText"`
	Truncated      bool   `json:"Truncated"`
	WordsLeft      int    `json:"WordsLeft"`
}

type directionsResponse struct {
	Directions []struct {
		Source string `json:"srcLanguageCode"`
		Target string `json:"destLanguageCode"`
	} `json:"Directions"`
}
