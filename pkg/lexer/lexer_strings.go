package lexer

import (
	"strconv"
	"strings"

	"github.com/CBerJun/acacia/pkg/token"
)

// font describes one entry in the fixed `\#(...)` font table (spec.md §4.2).
// EarliestVersion is the lowest [major, minor, patch] Bedrock version the
// font code is recognised by the game; fonts newer than the configured
// version emit the "new-font" warning rather than an error (spec.md §9 open
// question — resolved as a warning, see DESIGN.md).
type font struct {
	Code            rune
	EarliestVersion [3]int
}

// fontTable is the fixed set of recognised Minecraft Bedrock font names.
// Grounded on the handful of §-prefixed formatting/obfuscation codes Bedrock
// actually supports.
var fontTable = map[string]font{
	"obfuscated": {Code: 'k', EarliestVersion: [3]int{1, 0, 0}},
	"bold":       {Code: 'l', EarliestVersion: [3]int{1, 0, 0}},
	"italic":     {Code: 'o', EarliestVersion: [3]int{1, 0, 0}},
	"reset":      {Code: 'r', EarliestVersion: [3]int{1, 0, 0}},
	"black":      {Code: '0', EarliestVersion: [3]int{1, 0, 0}},
	"dark_blue":  {Code: '1', EarliestVersion: [3]int{1, 0, 0}},
	"dark_green": {Code: '2', EarliestVersion: [3]int{1, 0, 0}},
	"dark_aqua":  {Code: '3', EarliestVersion: [3]int{1, 0, 0}},
	"dark_red":   {Code: '4', EarliestVersion: [3]int{1, 0, 0}},
	"purple":     {Code: '5', EarliestVersion: [3]int{1, 0, 0}},
	"gold":       {Code: '6', EarliestVersion: [3]int{1, 0, 0}},
	"gray":       {Code: '7', EarliestVersion: [3]int{1, 0, 0}},
	"dark_gray":  {Code: '8', EarliestVersion: [3]int{1, 0, 0}},
	"blue":       {Code: '9', EarliestVersion: [3]int{1, 0, 0}},
	"green":      {Code: 'a', EarliestVersion: [3]int{1, 0, 0}},
	"aqua":       {Code: 'b', EarliestVersion: [3]int{1, 0, 0}},
	"red":        {Code: 'c', EarliestVersion: [3]int{1, 0, 0}},
	"light_purple": {Code: 'd', EarliestVersion: [3]int{1, 0, 0}},
	"yellow":     {Code: 'e', EarliestVersion: [3]int{1, 0, 0}},
	"white":      {Code: 'f', EarliestVersion: [3]int{1, 0, 0}},
	"minecoin_gold": {Code: 'g', EarliestVersion: [3]int{1, 19, 0}},
	"material_quartz": {Code: 'h', EarliestVersion: [3]int{1, 19, 80}},
	"material_iron":   {Code: 'i', EarliestVersion: [3]int{1, 19, 80}},
	"material_netherite": {Code: 'j', EarliestVersion: [3]int{1, 19, 80}},
	"material_redstone": {Code: 'm', EarliestVersion: [3]int{1, 19, 80}},
	"material_copper":   {Code: 'n', EarliestVersion: [3]int{1, 19, 80}},
	"material_gold":     {Code: 'p', EarliestVersion: [3]int{1, 19, 80}},
	"material_emerald":  {Code: 'q', EarliestVersion: [3]int{1, 19, 80}},
	"material_diamond":  {Code: 's', EarliestVersion: [3]int{1, 19, 80}},
	"material_lapis":    {Code: 't', EarliestVersion: [3]int{1, 19, 80}},
	"material_amethyst": {Code: 'u', EarliestVersion: [3]int{1, 19, 80}},
}

func versionLess(a, b [3]int) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (l *Lexer) scanStringStart(mode stringMode) {
	start := l.pos
	l.pos++ // consume opening quote
	l.emit(token.STRING_BEGIN, start, l.pos, nil)
	l.strings = append(l.strings, stringFrame{mode: mode})
}

func (l *Lexer) scanCommandStart() {
	start := l.pos
	if l.pos+1 < len(l.text) && l.text[l.pos+1] == '*' {
		l.pos += 2
		l.emit(token.COMMAND_BEGIN, start, l.pos, nil)
		l.strings = append(l.strings, stringFrame{mode: modeLongCommand})
		return
	}
	l.pos++
	l.emit(token.COMMAND_BEGIN, start, l.pos, nil)
	l.strings = append(l.strings, stringFrame{mode: modeShortCommand})
}

// scanStringBody consumes one run of literal text (decoding escapes as it
// goes) from within a string or command, stopping at a terminator, the
// start of a `${...}` interpolation, or an error condition.
func (l *Lexer) scanStringBody() {
	frame := l.strings[len(l.strings)-1]
	var b strings.Builder
	textStart := l.pos

	flush := func() {
		if b.Len() > 0 || l.pos > textStart {
			l.emit(token.TEXT_BODY, textStart, l.pos, b.String())
		}
		b.Reset()
	}

	for {
		if l.pos >= len(l.text) {
			flush()
			l.reportUnterminated(frame.mode, textStart)
			l.popString()
			return
		}
		c := l.text[l.pos]

		switch frame.mode {
		case modeString:
			if c == '"' {
				flush()
				end := l.pos + 1
				l.pos = end
				l.emit(token.STRING_END, l.pos-1, end, nil)
				l.popString()
				return
			}
			if c == '\n' {
				flush()
				l.errorAt("unclosed-quote", textStart, l.pos, nil)
				l.popString()
				return
			}
		case modeShortCommand:
			if c == '\n' {
				flush()
				l.emit(token.COMMAND_END, l.pos, l.pos, nil)
				l.popString()
				return
			}
		case modeLongCommand:
			if c == '*' && l.pos+1 < len(l.text) && l.text[l.pos+1] == '/' {
				flush()
				l.pos += 2
				l.emit(token.COMMAND_END, l.pos-2, l.pos, nil)
				l.popString()
				return
			}
			if c == '\n' {
				b.WriteByte(' ')
				l.pos++
				continue
			}
		}

		if c == '\\' {
			flush()
			textStart = l.pos
			if !l.scanEscape(&b) {
				l.popString()
				return
			}
			textStart = l.pos
			continue
		}

		if c == '$' && l.pos+1 < len(l.text) && l.text[l.pos+1] == '{' {
			flush()
			start := l.pos
			l.pos += 2
			l.emit(token.DOLLAR_LBRACE, start, l.pos, nil)
			top := &l.strings[len(l.strings)-1]
			top.inFexpr = true
			top.braceDepth = 0
			return
		}

		b.WriteByte(c)
		l.pos++
	}
}

func (l *Lexer) popString() {
	l.strings = l.strings[:len(l.strings)-1]
}

func (l *Lexer) reportUnterminated(mode stringMode, start int) {
	switch mode {
	case modeString:
		l.errorAt("unclosed-quote", start, l.pos, nil)
	case modeShortCommand:
		// Short commands terminate at EOL or EOF; EOF is not an error for
		// the short form since the final line of a file need not end in a
		// newline.
		l.emit(token.COMMAND_END, l.pos, l.pos, nil)
	case modeLongCommand:
		l.errorAt("unclosed-long-command", start, l.pos, nil)
	}
}

// scanEscape decodes one `\...` escape sequence, appending its decoded
// content to b.  Returns false if the escape was so malformed that the
// enclosing string/command should be abandoned (e.g. a bare backslash at
// EOF).
func (l *Lexer) scanEscape(b *strings.Builder) bool {
	start := l.pos
	l.pos++ // consume backslash
	if l.pos >= len(l.text) {
		l.errorAt("incomplete-escape", start, l.pos, nil)
		return false
	}
	c := l.text[l.pos]
	switch c {
	case '\\':
		b.WriteByte('\\')
		l.pos++
	case '"':
		b.WriteByte('"')
		l.pos++
	case 'n':
		b.WriteByte('\n')
		l.pos++
	case 't':
		b.WriteByte('\t')
		l.pos++
	case 'x':
		l.pos++
		l.scanHexEscape(b, 2, start)
	case 'u':
		l.pos++
		l.scanHexEscape(b, 4, start)
	case 'U':
		l.pos++
		l.scanHexEscape(b, 8, start)
	case '#':
		l.pos++
		l.scanFontEscape(b, start)
	default:
		l.errorAt("invalid-escape", start, l.pos+1, map[string]any{"char": string(c)})
		l.pos++
	}
	return true
}

func (l *Lexer) scanHexEscape(b *strings.Builder, digits int, start int) {
	if l.pos+digits > len(l.text) {
		l.errorAt("incomplete-unicode-escape", start, len(l.text), nil)
		l.pos = len(l.text)
		return
	}
	hex := l.text[l.pos : l.pos+digits]
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			l.errorAt("incomplete-unicode-escape", start, l.pos+i, nil)
			l.pos += i
			return
		}
	}
	v, _ := strconv.ParseInt(hex, 16, 64)
	l.pos += digits
	if v >= 0x110000 {
		l.errorAt("invalid-unicode-code-point", start, l.pos, map[string]any{"value": hex})
		return
	}
	b.WriteRune(rune(v))
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanFontEscape handles `\#(font1, font2, ...)`, emitting the corresponding
// §-prefixed Minecraft format codes and validating each font name against
// fontTable.
func (l *Lexer) scanFontEscape(b *strings.Builder, start int) {
	if l.pos >= len(l.text) || l.text[l.pos] != '(' {
		l.errorAt("unclosed-font", start, l.pos, nil)
		return
	}
	l.pos++
	for {
		for l.pos < len(l.text) && (l.text[l.pos] == ' ' || l.text[l.pos] == '\t') {
			l.pos++
		}
		nameStart := l.pos
		for l.pos < len(l.text) && isIdentCont(l.text[l.pos]) {
			l.pos++
		}
		name := l.text[nameStart:l.pos]
		if name == "" {
			l.errorAt("unclosed-font", start, l.pos, nil)
			return
		}
		f, ok := fontTable[name]
		if !ok {
			l.errorAt("invalid-font", nameStart, l.pos, map[string]any{"name": name})
		} else {
			if l.cfg.GameVersion != [3]int{} && versionLess(l.cfg.GameVersion, f.EarliestVersion) {
				l.errorAt("new-font", nameStart, l.pos, map[string]any{"name": name})
			}
			b.WriteRune('§')
			b.WriteRune(f.Code)
		}
		for l.pos < len(l.text) && (l.text[l.pos] == ' ' || l.text[l.pos] == '\t') {
			l.pos++
		}
		if l.pos < len(l.text) && l.text[l.pos] == ',' {
			l.pos++
			continue
		}
		break
	}
	if l.pos >= len(l.text) || l.text[l.pos] != ')' {
		l.errorAt("unclosed-font", start, l.pos, nil)
		return
	}
	l.pos++
}
