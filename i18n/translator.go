// Package i18n renders localized validation messages.
package i18n

import (
	"strings"
	"sync/atomic"
)

// Data keys understood by the built-in translator.
const (
	KeyKey      = "key"
	KeyParent   = "parent"
	KeyExpected = "expected"
	KeyGot      = "got"
	KeyPath     = "path"
	KeyCause    = "cause"
)

// Translator retrieves localized messages for error codes.
// data provides metadata to embed in the message (see the Key* constants).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	if t.lang == "ja" {
		return messageJA(code, data)
	}
	return messageEN(code, data)
}

func messageEN(code string, d map[string]string) string {
	b := &strings.Builder{}
	keyText := func() {
		if d[KeyKey] != "" {
			b.WriteString(` for key "` + d[KeyKey] + `"`)
		}
	}
	parentText := func() {
		if d[KeyParent] != "" {
			b.WriteString(" on " + d[KeyParent])
		}
	}
	switch code {
	case "unknown_key":
		b.WriteString(`Unknown key "` + d[KeyKey] + `"`)
		parentText()
		b.WriteString(". Got " + d[KeyGot])
	case "key_collision":
		b.WriteString(`Key "` + d[KeyKey] + `"`)
		parentText()
		b.WriteString(" collides with a renamed field. Got " + d[KeyGot])
	case "unresolved_ref":
		b.WriteString(`Unresolved schema reference "` + d[KeyExpected] + `"`)
		keyText()
		parentText()
	case "too_deep":
		b.WriteString("Maximum nesting depth exceeded at " + pathOrRoot(d[KeyPath]))
	case "parse_error", "duplicate_key", "truncated":
		b.WriteString("Invalid JSON at " + pathOrRoot(d[KeyPath]))
		if d[KeyCause] != "" {
			b.WriteString(": " + d[KeyCause])
		}
	default:
		b.WriteString("Invalid value")
		keyText()
		parentText()
		b.WriteString(". Expected " + d[KeyExpected] + " but got " + d[KeyGot])
	}
	return b.String()
}

func messageJA(code string, d map[string]string) string {
	b := &strings.Builder{}
	where := func() {
		if d[KeyParent] != "" {
			b.WriteString(d[KeyParent] + " の")
		}
		if d[KeyKey] != "" {
			b.WriteString("キー \"" + d[KeyKey] + "\" の")
		}
	}
	switch code {
	case "unknown_key":
		where()
		b.WriteString("未知のキーです (値: " + d[KeyGot] + ")")
	case "key_collision":
		where()
		b.WriteString("名前を変更したフィールドと衝突しています (値: " + d[KeyGot] + ")")
	case "unresolved_ref":
		b.WriteString("スキーマ参照 \"" + d[KeyExpected] + "\" を解決できません")
	case "too_deep":
		b.WriteString(pathOrRoot(d[KeyPath]) + " でネストが深すぎます")
	case "parse_error", "duplicate_key", "truncated":
		b.WriteString(pathOrRoot(d[KeyPath]) + " で JSON の解析エラー")
		if d[KeyCause] != "" {
			b.WriteString(": " + d[KeyCause])
		}
	default:
		where()
		b.WriteString("値が不正です。" + d[KeyExpected] + " を期待しましたが " + d[KeyGot] + " でした")
	}
	return b.String()
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation. nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
