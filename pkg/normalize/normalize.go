/*
 * Copyright 2025 The Scriptorium Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package normalize cleans raw pasted text before it is assembled into a
// document record. The pipeline removes OCR and PDF artifacts such as
// hyphenated line wraps, page-number lines, citation markers and mis-decoded
// punctuation. The order of the steps matters: later steps assume the
// cleanup done by earlier ones.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	pageNumberLineRegex = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$\n?`)
	hyphenWrapRegex     = regexp.MustCompile(`-\n(\p{L})`)
	horizontalWSRegex   = regexp.MustCompile(`[ \t]+`)
	excessNewlinesRegex = regexp.MustCompile(`\n{3,}`)
	lineEdgeWSRegex     = regexp.MustCompile(`(?m)(^[ \t]+|[ \t]+$)`)
	citationRegex       = regexp.MustCompile(`[ \t]*\[\d+\]`)
	wsBeforePunctRegex  = regexp.MustCompile(`([\p{L}\p{N}])[ \t]+([.,!?;:])`)
	punctGapRegex       = regexp.MustCompile(`([.,!?;:])[ \t]+([.,!?;:])`)
	urlRegex            = regexp.MustCompile(`https?://\S+[ \t]?`)
	emailRegex          = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}[ \t]?`)
)

// punctReplacer maps curly quotes, unicode ellipsis/dash characters and their
// common Windows-1252 mojibake forms to plain ASCII.
var punctReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"‛", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"…", "...",
	"—", "--", // em dash
	"–", "-", // en dash
	" ", " ",
	"â€¦", "...", // mojibake ellipsis
	"â€”", "--", // mojibake em dash
	"â€“", "-", // mojibake en dash
	"â€™", "'", // mojibake right single quote
	"â€˜", "'", // mojibake left single quote
	"â€œ", `"`, // mojibake left double quote
	"â€", `"`, // mojibake right double quote
)

// Normalize maps raw pasted text to cleaned text. It is a total function:
// it never fails and empty input yields an empty string. The result is
// deterministic and does not depend on locale, and running Normalize on
// already-clean text returns it unchanged.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := canonicalize(raw)
	text = asciiPunctuation(text)
	text = stripPageNumberLines(text)
	text = rejoinHyphenation(text)
	text = collapseHorizontalWhitespace(text)
	text = collapseBlankLines(text)
	text = trimLineEdges(text)
	text = stripCitations(text)
	text = tidyPunctuationSpacing(text)
	text = stripURLs(text)
	text = stripEmails(text)

	return strings.TrimSpace(text)
}

// canonicalize composes combining characters to canonical form (NFC) and
// unifies line endings so that the line-based steps below see plain "\n".
func canonicalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// asciiPunctuation replaces smart quotes, unicode ellipses and dashes, and
// their mis-decoded byte sequences with ASCII equivalents.
func asciiPunctuation(text string) string {
	return punctReplacer.Replace(text)
}

// stripPageNumberLines drops lines that contain nothing but a page number.
func stripPageNumberLines(text string) string {
	return pageNumberLineRegex.ReplaceAllString(text, "")
}

// rejoinHyphenation merges words that were split across a line break with a
// hyphen, e.g. "exam-\nple" becomes "example".
func rejoinHyphenation(text string) string {
	return hyphenWrapRegex.ReplaceAllString(text, "$1")
}

// collapseHorizontalWhitespace collapses runs of spaces and tabs to a single
// space. Newlines are left untouched.
func collapseHorizontalWhitespace(text string) string {
	return horizontalWSRegex.ReplaceAllString(text, " ")
}

// collapseBlankLines reduces three or more consecutive newlines to exactly
// two, preserving paragraph breaks while removing excess vertical space.
func collapseBlankLines(text string) string {
	return excessNewlinesRegex.ReplaceAllString(text, "\n\n")
}

// trimLineEdges removes leading and trailing horizontal whitespace on every line.
func trimLineEdges(text string) string {
	return lineEdgeWSRegex.ReplaceAllString(text, "")
}

// stripCitations removes bracketed numeric citation markers such as "[1]" or
// "[23]" together with the space that precedes them.
func stripCitations(text string) string {
	return citationRegex.ReplaceAllString(text, "")
}

// tidyPunctuationSpacing removes whitespace between a word and the
// punctuation that follows it, and keeps exactly one space between two
// punctuation marks that were separated by whitespace. Runs of punctuation
// with no whitespace between them, such as "..." or "--", are left alone.
func tidyPunctuationSpacing(text string) string {
	text = wsBeforePunctRegex.ReplaceAllString(text, "$1$2")
	return punctGapRegex.ReplaceAllString(text, "$1 $2")
}

// stripURLs removes http(s) URL tokens entirely, along with one trailing
// space so that the surrounding words join cleanly.
func stripURLs(text string) string {
	return urlRegex.ReplaceAllString(text, "")
}

// stripEmails removes email-address-shaped tokens.
func stripEmails(text string) string {
	return emailRegex.ReplaceAllString(text, "")
}
