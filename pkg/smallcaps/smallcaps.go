// Package smallcaps converts latin text to unicode small-caps glyphs
package smallcaps

import "strings"

var glyphs = map[rune]rune{
	'a': 'ᴀ', 'b': 'ʙ', 'c': 'ᴄ', 'd': 'ᴅ', 'e': 'ᴇ', 'f': 'ғ', 'g': 'ɢ', 'h': 'ʜ',
	'i': 'ɪ', 'j': 'ᴊ', 'k': 'ᴋ', 'l': 'ʟ', 'm': 'ᴍ', 'n': 'ɴ', 'o': 'ᴏ', 'p': 'ᴘ',
	'q': 'ǫ', 'r': 'ʀ', 's': 's', 't': 'ᴛ', 'u': 'ᴜ', 'v': 'ᴠ', 'w': 'ᴡ', 'x': 'x',
	'y': 'ʏ', 'z': 'ᴢ',
}

// Convert maps every latin letter to its small-caps glyph; everything else
// passes through unchanged. Uppercase input is lowered first.
func Convert(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if g, ok := glyphs[r]; ok {
			b.WriteRune(g)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
