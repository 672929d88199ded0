// Package chunk splits input text into overlapping windows suitable
// for independent embedding, grounded on
// original_source/crates/umap-core/src/chunk.rs.
package chunk

import (
	"regexp"
	"strings"

	"github.com/kestrelhq/semanticmap/internal/reduce/embed"
)

// ByTokenOverlap tokenizes text and emits fixed-size windows of
// tokensPerChunk tokens with step = max(tokensPerChunk-overlap, 1),
// joining tokens with a single space. The final chunk always ends at
// the end of input. tokensPerChunk == 0 yields no chunks.
func ByTokenOverlap(text string, tokensPerChunk, overlap int) []string {
	if tokensPerChunk == 0 {
		return nil
	}
	toks := embed.Tokenize(text)
	step := tokensPerChunk - overlap
	if step < 1 {
		step = 1
	}

	var out []string
	for i := 0; i < len(toks); i += step {
		end := i + tokensPerChunk
		if end > len(toks) {
			end = len(toks)
		}
		out = append(out, strings.Join(toks[i:end], " "))
		if end == len(toks) {
			break
		}
	}
	return out
}

// SplitParagraphs splits input on blank lines. Input with no blank
// lines yields a single paragraph containing the trimmed input.
func SplitParagraphs(input string) []string {
	parts := strings.Split(input, "\n\n")
	var paras []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	if len(paras) == 0 {
		paras = []string{strings.TrimSpace(input)}
	}
	return paras
}

var sentenceRe = regexp.MustCompile(`(?s)(.*?[.!?])\s+`)

// SplitSentences splits input into sentences on '.', '!', or '?'
// followed by whitespace. Not a linguistically complete splitter, just
// good enough to window long runs of text.
func SplitSentences(input string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringSubmatchIndex(input, -1) {
		sentStart, sentEnd := loc[2], loc[3]
		sent := strings.TrimSpace(input[sentStart:sentEnd])
		if sent != "" {
			out = append(out, sent)
		}
		last = loc[1]
	}
	tail := strings.TrimSpace(input[last:])
	if tail != "" {
		out = append(out, tail)
	}
	return out
}

// chunkBySentences joins consecutive windows of `window` sentences.
func chunkBySentences(sentences []string, window int) []string {
	if window == 0 {
		return nil
	}
	var out []string
	for i := 0; i < len(sentences); i += window {
		end := i + window
		if end > len(sentences) {
			end = len(sentences)
		}
		out = append(out, strings.Join(sentences[i:end], " "))
	}
	return out
}

// Auto chunks text adaptively: if the input splits into at least five
// paragraphs, each paragraph is its own chunk. Otherwise it falls back
// to sentence windows, widening the window to 8 sentences once the
// input exceeds 50 sentences (5 otherwise).
func Auto(input string) []string {
	paras := SplitParagraphs(input)
	if len(paras) >= 5 {
		return paras
	}
	sents := SplitSentences(input)
	window := 5
	if len(sents) > 50 {
		window = 8
	}
	return chunkBySentences(sents, window)
}
