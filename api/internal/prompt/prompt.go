// Package prompt собирает тексты запросов для трёх этапов анализа.
// Встроенные шаблоны можно перекрыть файлами <PROMPT_DIR>/<name>.txt.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	Identify  = "identify"
	Ripeness  = "ripeness"
	Sweetness = "sweetness"
)

var builtin = map[string]string{
	Identify:  identifyTemplate,
	Ripeness:  ripenessTemplate,
	Sweetness: sweetnessTemplate,
}

// поля, которые модель должна писать на языке пользователя
var localizedFields = map[string]string{
	Identify:  `The "reasoning" field must be in %s.`,
	Ripeness:  `All text fields (indicators, defects, color, texture, blemishes) must be in %s.`,
	Sweetness: `All text fields (label, compared_to_average, recommendation text, alternatives, taste_notes) must be in %s.`,
}

var languages = map[string]string{
	"en": "English",
	"ko": "Korean",
	"ja": "Japanese",
	"zh": "Chinese",
	"fr": "French",
}

var ErrUnknownPrompt = errors.New("unknown prompt name")

// Data: параметры шаблона.
type Data struct {
	FruitName     string
	RipenessLevel string
	RipenessScore float64
	QualityScore  float64
	Instruction   string
}

// Names: известные имена промптов.
func Names() []string { return []string{Identify, Ripeness, Sweetness} }

func Known(name string) bool {
	_, ok := builtin[name]
	return ok
}

// NormalizeLocale: неизвестный или пустой код — английский.
func NormalizeLocale(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if _, ok := languages[code]; ok {
		return code
	}
	return "en"
}

func LanguageName(code string) string {
	return languages[NormalizeLocale(code)]
}

// Instruction: языковая приписка к промпту; для английского пустая.
func Instruction(name, locale string) string {
	locale = NormalizeLocale(locale)
	if locale == "en" {
		return ""
	}
	lang := languages[locale]
	return fmt.Sprintf("\n\nIMPORTANT: Respond in %s. "+localizedFields[name], lang, lang)
}

type Set struct {
	Dir string
}

func NewSet(dir string) *Set {
	return &Set{Dir: strings.TrimSpace(dir)}
}

// Render подставляет данные и языковую инструкцию в шаблон этапа.
func (s *Set) Render(name, locale string, d Data) (string, error) {
	src, err := s.source(name)
	if err != nil {
		return "", err
	}
	tpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", name, err)
	}
	d.Instruction = Instruction(name, locale)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Set) source(name string) (string, error) {
	def, ok := builtin[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	if s == nil || s.Dir == "" {
		return def, nil
	}
	if b, err := os.ReadFile(s.Path(name)); err == nil && len(bytes.TrimSpace(b)) > 0 {
		return strings.TrimSpace(string(b)), nil
	}
	return def, nil
}

func (s *Set) Path(name string) string {
	return filepath.Join(s.Dir, name+".txt")
}

// WriteOverride атомарно записывает шаблон: временный файл в том же каталоге, затем rename.
// Шаблон проверяется до записи.
func (s *Set) WriteOverride(name, text string) (string, error) {
	if !Known(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	if s.Dir == "" {
		return "", errors.New("PROMPT_DIR is not configured")
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("bad template: %w", err)
	}
	// неизвестные поля ловятся только при исполнении
	if err := tmpl.Execute(io.Discard, Data{}); err != nil {
		return "", fmt.Errorf("bad template: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("make dir: %w", err)
	}

	dst := s.Path(name)
	tmp, err := os.CreateTemp(s.Dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write temp: %w", err)
	}
	_ = tmp.Chmod(0o644)
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename: %w", err)
	}
	return dst, nil
}
